// Package worker runs the archiver pool that drains finalized match records
// into the archive store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/grapple/internal/adapters/repository"
	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/pkg/logger"
	"github.com/okian/grapple/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Record is what workers read off the queue.
type Record = model.MatchRecord

// Archiver persists a finalized match record.
type Archiver interface {
	Archive(ctx context.Context, rec model.MatchRecord) error
}

// Queue defines how workers receive records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Record
}

// Worker drains records from the queue into the archiver.
type Worker struct {
	queue    Queue
	archiver Archiver
	name     string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, archiver Archiver, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		archiver: archiver,
		name:     "archiver",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("archiver"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes records until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	records := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			w.archive(ctx, rec)
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight record.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "worker shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// archive writes one record, tolerating replays of already-archived matches.
func (w *Worker) archive(ctx context.Context, rec Record) {
	if err := w.archiver.Archive(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrAlreadyArchived) {
			w.logger.Debug(ctx, "skipping already archived match",
				logger.String("matchID", rec.MatchID),
			)
			return
		}
		w.logger.Error(ctx, "archive write failed",
			logger.String("matchID", rec.MatchID),
			logger.Error(err),
		)
		return
	}
	w.logger.Debug(ctx, "match archived",
		logger.String("matchID", rec.MatchID),
		logger.String("winType", string(rec.Outcome.WinType)),
	)
}

// Pool manages a fixed set of archiver workers.
type Pool struct {
	workers []*Worker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates and wires workerCount workers over the shared queue.
func NewPool(workerCount int, queue Queue, archiver Archiver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("archiver-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(queue, archiver, WithName("archiver-"+strconv.Itoa(i)))
	}

	metrics.UpdateArchiverWorkers(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.stopOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and drains the pool within the pool timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
