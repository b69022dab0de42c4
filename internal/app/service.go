// Package app provides the core business service that implements the
// dependencies required by the HTTP API: the live-match registry plus the
// archive pipeline for finished bouts.
package app

import (
	"context"
	"sync"
	"time"

	archivequeue "github.com/okian/grapple/internal/adapters/mq/queue"
	workerpool "github.com/okian/grapple/internal/adapters/mq/worker"
	"github.com/okian/grapple/internal/adapters/repository"
	"github.com/okian/grapple/internal/domain/dedupe"
	"github.com/okian/grapple/internal/domain/ledger"
	"github.com/okian/grapple/internal/domain/match"
	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/pkg/logger"
	"github.com/okian/grapple/pkg/metrics"
)

// liveMatch pairs a match engine with the mutex that serializes its single
// operator's requests. The engine itself takes no locks.
type liveMatch struct {
	mu sync.Mutex
	m  *match.Match
}

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu   sync.RWMutex
	live map[string]*liveMatch

	deduper dedupe.Deduper
	queue   archivequeue.Queue
	pool    *workerpool.Pool
	store   repository.Store

	// Configuration
	queueSize      int
	workerCount    int
	dedupeSize     int
	bonusThreshold time.Duration

	started bool

	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithArchiveQueueSize bounds the finalized-match queue.
func WithArchiveQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithArchiverWorkers sets the number of archive workers.
func WithArchiverWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize bounds the submission idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRidingTimeBonus sets the net advantage that earns the bonus point.
func WithRidingTimeBonus(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.bonusThreshold = d
		}
	}
}

// WithStore overrides the archive store. Tests use this to observe writes.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock injects the time source handed to new matches.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		live:           make(map[string]*liveMatch),
		queueSize:      1024,
		workerCount:    4,
		dedupeSize:     50_000,
		bonusThreshold: 60 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the archive pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring service")

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = archivequeue.NewInMemoryQueue(
		archivequeue.WithCapacity(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("archiverWorkers", s.workerCount),
		logger.Int("archiveQueueSize", s.queueSize),
		logger.Duration("ridingTimeBonus", s.bonusThreshold),
	)
	return nil
}

// Stop gracefully shuts down the archive pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// SeenAndRecord atomically checks and records a submission id.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes a submission id so the client can retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of tracked submission ids.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// CreateMatch registers a new live match and returns its initial snapshot.
func (s *Service) CreateMatch(ctx context.Context, home, away model.Wrestler) (match.Status, error) {
	m := match.New(home, away,
		match.WithClock(s.now),
		match.WithBonusThreshold(s.bonusThreshold),
	)

	s.mu.Lock()
	s.live[m.ID()] = &liveMatch{m: m}
	active := len(s.live)
	s.mu.Unlock()

	metrics.RecordMatchStarted()
	metrics.UpdateActiveMatches(active)
	s.logger.Info(ctx, "match created",
		logger.String("matchID", m.ID()),
		logger.String("home", home.Name),
		logger.String("away", away.Name),
	)
	return m.Snapshot(), nil
}

// Snapshot returns the live state for a match id.
func (s *Service) Snapshot(ctx context.Context, matchID string) (match.Status, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return match.Status{}, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.m.Snapshot(), nil
}

// RecordEvent appends a scoring action to a live match. videoSeconds < 0
// means no video timestamp was provided.
func (s *Service) RecordEvent(ctx context.Context, matchID string, side model.Side, action model.ActionType, positionLabel string, videoSeconds float64) (model.ScoringEvent, match.Status, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return model.ScoringEvent{}, match.Status{}, err
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	var opts []ledger.EventOption
	if positionLabel != "" {
		opts = append(opts, ledger.WithPositionLabel(positionLabel))
	}
	if videoSeconds >= 0 {
		opts = append(opts, ledger.WithVideoSeconds(videoSeconds))
	}

	bonusBefore := lm.m.Snapshot().RidingBonusFired
	ev, err := lm.m.RecordAction(side, action, opts...)
	if err != nil {
		metrics.RecordEventRejected()
		return model.ScoringEvent{}, lm.m.Snapshot(), err
	}
	metrics.RecordEventRecorded(string(action))

	st := s.afterMutation(ctx, lm, bonusBefore)
	return ev, st, nil
}

// UndoEvent removes the newest event from a live match.
func (s *Service) UndoEvent(ctx context.Context, matchID string) (model.ScoringEvent, match.Status, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return model.ScoringEvent{}, match.Status{}, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	ev, err := lm.m.UndoLast()
	if err != nil {
		return model.ScoringEvent{}, lm.m.Snapshot(), err
	}
	metrics.RecordEventUndone()
	return ev, lm.m.Snapshot(), nil
}

// SetPosition updates mat position for a live match.
func (s *Service) SetPosition(ctx context.Context, matchID string, state model.PositionState, side model.Side) (match.Status, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return match.Status{}, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := lm.m.SetPosition(state, side); err != nil {
		return lm.m.Snapshot(), err
	}
	return lm.m.Snapshot(), nil
}

// SetClock starts or stops the match clock.
func (s *Service) SetClock(ctx context.Context, matchID string, running bool) (match.Status, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return match.Status{}, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	bonusBefore := lm.m.Snapshot().RidingBonusFired
	if running {
		err = lm.m.StartClock()
	} else {
		err = lm.m.StopClock()
	}
	if err != nil {
		return lm.m.Snapshot(), err
	}
	return s.afterMutation(ctx, lm, bonusBefore), nil
}

// AdvancePeriod closes the phase in play. decision carries the judge's pick
// for a tied ultimate tiebreaker and is empty otherwise.
func (s *Service) AdvancePeriod(ctx context.Context, matchID string, decision model.Side) (match.Status, error) {
	lm, err := s.get(matchID)
	if err != nil {
		return match.Status{}, err
	}
	lm.mu.Lock()
	defer lm.mu.Unlock()

	bonusBefore := lm.m.Snapshot().RidingBonusFired
	if decision != "" {
		if err := lm.m.DecideUltimateTiebreaker(decision); err != nil {
			return lm.m.Snapshot(), err
		}
	} else if _, err := lm.m.AdvancePeriod(); err != nil {
		return lm.m.Snapshot(), err
	}
	return s.afterMutation(ctx, lm, bonusBefore), nil
}

// Recent returns the latest finalized results.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.MatchRecord, error) {
	return s.store.Recent(ctx, limit)
}

// StandingFor returns the season standing for a wrestler.
func (s *Service) StandingFor(ctx context.Context, wrestlerID string) (repository.Standing, error) {
	return s.store.StandingFor(ctx, wrestlerID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"archiverWorkers": s.workerCount,
		"liveMatches":     len(s.live),
	}
	if s.started {
		stats["archiveQueueLength"] = s.queue.Len(ctx)
		stats["archivedMatches"] = s.store.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateActiveMatches(len(s.live))
	}
	return stats
}

// get looks up a live match. Must be called without lm.mu held.
func (s *Service) get(matchID string) (*liveMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lm, ok := s.live[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return lm, nil
}

// afterMutation records bonus metrics and, when the mutation completed the
// match, hands the record to the archive pipeline and retires the live
// entry. Must be called with lm.mu held.
func (s *Service) afterMutation(ctx context.Context, lm *liveMatch, bonusBefore bool) match.Status {
	st := lm.m.Snapshot()
	if !bonusBefore && st.RidingBonusFired {
		metrics.RecordRidingTimeBonus()
	}
	if st.Outcome == nil {
		return st
	}

	rec, err := lm.m.Record()
	if err != nil {
		s.logger.Error(ctx, "finalizing match failed",
			logger.String("matchID", st.MatchID),
			logger.Error(err),
		)
		return st
	}

	metrics.RecordMatchCompleted(string(rec.Outcome.WinType))
	s.logger.Info(ctx, "match complete",
		logger.String("matchID", rec.MatchID),
		logger.String("winType", string(rec.Outcome.WinType)),
		logger.String("result", st.Result),
	)

	if !s.queue.Enqueue(ctx, rec) {
		// Backpressure: never drop a finished match, write inline instead.
		s.logger.Warn(ctx, "archive queue full, writing record inline",
			logger.String("matchID", rec.MatchID),
		)
		if err := s.store.Archive(ctx, rec); err != nil {
			s.logger.Error(ctx, "inline archive failed",
				logger.String("matchID", rec.MatchID),
				logger.Error(err),
			)
		}
	}

	s.mu.Lock()
	delete(s.live, rec.MatchID)
	active := len(s.live)
	s.mu.Unlock()
	metrics.UpdateActiveMatches(active)

	return st
}
