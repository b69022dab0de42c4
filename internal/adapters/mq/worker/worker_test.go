package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/grapple/internal/adapters/mq/queue"
	worker "github.com/okian/grapple/internal/adapters/mq/worker"
	"github.com/okian/grapple/internal/adapters/repository"
	"github.com/okian/grapple/internal/domain/model"
	logging "github.com/okian/grapple/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// mockArchiver records archived matches and can fail on demand.
type mockArchiver struct {
	mu       sync.Mutex
	archived map[string]worker.Record
	errs     map[string]error
}

func newMockArchiver() *mockArchiver {
	return &mockArchiver{
		archived: make(map[string]worker.Record),
		errs:     make(map[string]error),
	}
}

func (m *mockArchiver) Archive(_ context.Context, rec model.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errs[rec.MatchID]; ok {
		return err
	}
	m.archived[rec.MatchID] = rec
	return nil
}

func (m *mockArchiver) setError(matchID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[matchID] = err
}

func (m *mockArchiver) get(matchID string) (worker.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.archived[matchID]
	return rec, ok
}

func (m *mockArchiver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.archived)
}

func finishedRecord(id string) worker.Record {
	return worker.Record{
		MatchID: id,
		Outcome: model.Outcome{Winner: model.Home, WinType: model.WinPin},
	}
}

func TestWorker(t *testing.T) {
	// Initialize logging for tests
	_ = logging.Init()
	ctx := context.Background()

	convey.Convey("Given a worker over a queue and archiver", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		archiver := newMockArchiver()
		w := worker.NewWorker(q, archiver, worker.WithName("test-archiver"))

		convey.Convey("When records flow through the queue", func() {
			go w.Run(ctx)

			convey.So(q.Enqueue(ctx, finishedRecord("m1")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, finishedRecord("m2")), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then both records are archived", func() {
				_, ok := archiver.get("m1")
				convey.So(ok, convey.ShouldBeTrue)
				_, ok = archiver.get("m2")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a record was already archived", func() {
			archiver.setError("dup", repository.ErrAlreadyArchived)
			go w.Run(ctx)

			convey.So(q.Enqueue(ctx, finishedRecord("dup")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, finishedRecord("fresh")), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then the replay is tolerated and work continues", func() {
				_, ok := archiver.get("fresh")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(archiver.count(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the archiver keeps failing", func() {
			archiver.setError("bad", errors.New("disk on fire"))
			go w.Run(ctx)

			convey.So(q.Enqueue(ctx, finishedRecord("bad")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, finishedRecord("good")), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then the failure does not stop later records", func() {
				_, ok := archiver.get("good")
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})
}

func TestPool(t *testing.T) {
	_ = logging.Init()
	ctx := context.Background()

	convey.Convey("Given a pool of archiver workers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		archiver := newMockArchiver()
		pool := worker.NewPool(3, q, archiver)

		convey.Convey("When the pool drains a burst of finished matches", func() {
			pool.Start(ctx)

			for i := 0; i < 20; i++ {
				convey.So(q.Enqueue(ctx, finishedRecord("m"+string(rune('a'+i)))), convey.ShouldBeTrue)
			}
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then every record reaches the archiver", func() {
				convey.So(archiver.count(), convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When a pool is created with an invalid size", func() {
			p := worker.NewPool(0, q, archiver)

			convey.Convey("Then it falls back to a sane default", func() {
				convey.So(p, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When stopping an idle pool", func() {
			pool.Start(ctx)
			pool.Stop()

			convey.Convey("Then stopping again is safe", func() {
				pool.Stop()
			})
		})
	})
}
