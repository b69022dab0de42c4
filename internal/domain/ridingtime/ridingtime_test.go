package ridingtime_test

import (
	"testing"
	"time"

	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/internal/domain/ridingtime"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAccumulator(t *testing.T) {
	base := time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)

	Convey("Given a fresh accumulator", t, func() {
		a := ridingtime.New()

		Convey("Then both sides start at zero", func() {
			So(a.Accumulated(model.Home, base), ShouldEqual, 0)
			So(a.Accumulated(model.Away, base), ShouldEqual, 0)
			So(a.Running(), ShouldBeFalse)
		})

		Convey("When home rides for 30 seconds", func() {
			a.Start(model.Home, base)
			a.Stop(base.Add(30 * time.Second))

			Convey("Then home accumulated 30 seconds", func() {
				So(a.Accumulated(model.Home, base.Add(30*time.Second)), ShouldEqual, 30*time.Second)
				So(a.Accumulated(model.Away, base.Add(30*time.Second)), ShouldEqual, 0)
			})

			Convey("And the net advantage is home's", func() {
				now := base.Add(30 * time.Second)
				So(a.NetAdvantage(now), ShouldEqual, 30*time.Second)
				side, ok := a.AdvantageSide(now)
				So(ok, ShouldBeTrue)
				So(side, ShouldEqual, model.Home)
			})
		})

		Convey("When an interval is open", func() {
			a.Start(model.Away, base)

			Convey("Then the uncommitted share is included in reads", func() {
				So(a.Running(), ShouldBeTrue)
				So(a.Accumulated(model.Away, base.Add(12*time.Second)), ShouldEqual, 12*time.Second)
			})
		})

		Convey("When control switches without an explicit stop", func() {
			a.Start(model.Home, base)
			a.Start(model.Away, base.Add(20*time.Second))
			a.Stop(base.Add(50 * time.Second))

			Convey("Then the first interval was committed at the switch", func() {
				now := base.Add(50 * time.Second)
				So(a.Accumulated(model.Home, now), ShouldEqual, 20*time.Second)
				So(a.Accumulated(model.Away, now), ShouldEqual, 30*time.Second)
			})
		})

		Convey("When Stop is called with no open interval", func() {
			a.Stop(base)

			Convey("Then nothing changes", func() {
				So(a.Accumulated(model.Home, base), ShouldEqual, 0)
			})
		})
	})

	Convey("Given the 60 second bonus threshold", t, func() {
		a := ridingtime.New()

		Convey("When the advantage is below threshold", func() {
			a.Start(model.Home, base)
			a.Stop(base.Add(59 * time.Second))

			Convey("Then no bonus fires", func() {
				_, fired := a.CheckBonus(base.Add(59 * time.Second))
				So(fired, ShouldBeFalse)
				So(a.BonusAwarded(), ShouldBeFalse)
			})
		})

		Convey("When the advantage reaches the threshold", func() {
			a.Start(model.Home, base)
			a.Stop(base.Add(60 * time.Second))
			now := base.Add(60 * time.Second)

			side, fired := a.CheckBonus(now)

			Convey("Then the bonus fires for the advantage side", func() {
				So(fired, ShouldBeTrue)
				So(side, ShouldEqual, model.Home)
				So(a.BonusAwarded(), ShouldBeTrue)
			})

			Convey("And it never fires a second time", func() {
				_, again := a.CheckBonus(now.Add(time.Hour))
				So(again, ShouldBeFalse)
			})

			Convey("And the award survives the lead changing hands", func() {
				a.Start(model.Away, now)
				a.Stop(now.Add(5 * time.Minute))

				later := now.Add(5 * time.Minute)
				advSide, ok := a.AdvantageSide(later)
				So(ok, ShouldBeTrue)
				So(advSide, ShouldEqual, model.Away)

				_, again := a.CheckBonus(later)
				So(again, ShouldBeFalse)
				So(a.BonusAwarded(), ShouldBeTrue)
			})
		})

		Convey("When the threshold crossing happens mid-interval", func() {
			a.Start(model.Away, base)

			Convey("Then a check during the open interval still fires", func() {
				side, fired := a.CheckBonus(base.Add(90 * time.Second))
				So(fired, ShouldBeTrue)
				So(side, ShouldEqual, model.Away)
			})
		})
	})

	Convey("Given a custom bonus threshold", t, func() {
		a := ridingtime.New(ridingtime.WithBonusThreshold(10 * time.Second))

		Convey("When the shorter advantage is reached", func() {
			a.Start(model.Home, base)

			side, fired := a.CheckBonus(base.Add(10 * time.Second))

			Convey("Then the bonus fires at the configured threshold", func() {
				So(fired, ShouldBeTrue)
				So(side, ShouldEqual, model.Home)
			})
		})
	})
}
