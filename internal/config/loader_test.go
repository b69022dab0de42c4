package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/grapple/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no configuration sources", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the built-in defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.ArchiveQueueSize, ShouldEqual, 1024)
			So(cfg.DedupeSize, ShouldEqual, 50_000)
			So(cfg.RidingTimeBonusSeconds, ShouldEqual, 60)
			So(cfg.MaxResultsLimit, ShouldEqual, 100)
			So(cfg.ArchiverWorkers, ShouldBeGreaterThan, 0)
		})
	})
}

func TestLoadEnv(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		_ = os.Setenv("GRAPPLE_ADDR", ":8080")
		_ = os.Setenv("GRAPPLE_ARCHIVE_QUEUE_SIZE", "2048")
		_ = os.Setenv("GRAPPLE_ARCHIVER_WORKERS", "2")
		_ = os.Setenv("GRAPPLE_RIDING_TIME_BONUS_SECONDS", "90")
		defer func() {
			_ = os.Unsetenv("GRAPPLE_ADDR")
			_ = os.Unsetenv("GRAPPLE_ARCHIVE_QUEUE_SIZE")
			_ = os.Unsetenv("GRAPPLE_ARCHIVER_WORKERS")
			_ = os.Unsetenv("GRAPPLE_RIDING_TIME_BONUS_SECONDS")
		}()

		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.ArchiveQueueSize, ShouldEqual, 2048)
			So(cfg.ArchiverWorkers, ShouldEqual, 2)
			So(cfg.RidingTimeBonusSeconds, ShouldEqual, 90)
		})

		Convey("And untouched keys keep their defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.MaxResultsLimit, ShouldEqual, 100)
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "grapple.yaml")
		yaml := "log_level: debug\naddr: \":7070\"\nmax_results_limit: 25\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)

		_ = os.Setenv("GRAPPLE_CONFIG", path)
		defer func() { _ = os.Unsetenv("GRAPPLE_CONFIG") }()

		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.MaxResultsLimit, ShouldEqual, 25)
				So(cfg.ArchiveQueueSize, ShouldEqual, 1024)
			})
		})

		Convey("When env contradicts the file", func() {
			_ = os.Setenv("GRAPPLE_ADDR", ":6060")
			defer func() { _ = os.Unsetenv("GRAPPLE_ADDR") }()

			cfg, err := config.Load(context.Background())

			Convey("Then env wins", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})
	})

	Convey("Given a missing config file", t, func() {
		_ = os.Setenv("GRAPPLE_CONFIG", "/nonexistent/grapple.yaml")
		defer func() { _ = os.Unsetenv("GRAPPLE_CONFIG") }()

		_, err := config.Load(context.Background())

		Convey("Then loading fails with the load sentinel", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "load")
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given invalid configuration values", t, func() {
		cases := map[string]string{
			"GRAPPLE_ARCHIVE_QUEUE_SIZE":        "0",
			"GRAPPLE_ARCHIVER_WORKERS":          "-1",
			"GRAPPLE_RIDING_TIME_BONUS_SECONDS": "0",
			"GRAPPLE_MAX_RESULTS_LIMIT":         "0",
		}

		for key, val := range cases {
			Convey("When "+key+" is "+val, func() {
				_ = os.Setenv(key, val)
				defer func() { _ = os.Unsetenv(key) }()

				_, err := config.Load(context.Background())

				Convey("Then loading fails validation", func() {
					So(err, ShouldNotBeNil)
				})
			})
		}
	})
}
