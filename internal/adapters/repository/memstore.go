package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/pkg/metrics"
)

// MemStore implements Store in memory. Records are kept in finish order and
// standings are folded in on write so reads stay cheap.
type MemStore struct {
	mu        sync.RWMutex
	byID      map[string]model.MatchRecord
	order     []string // match ids, oldest first
	standings map[string]*Standing
}

// NewMemStore creates an empty archive store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:      make(map[string]model.MatchRecord),
		standings: make(map[string]*Standing),
	}
}

// Archive persists rec. Re-archiving the same match id is rejected so
// standings never double-count.
func (s *MemStore) Archive(_ context.Context, rec model.MatchRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordArchiveWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[rec.MatchID]; ok {
		metrics.RecordArchiveError()
		return ErrAlreadyArchived
	}
	s.byID[rec.MatchID] = rec
	s.order = append(s.order, rec.MatchID)
	s.fold(rec)

	metrics.RecordArchiveWrite()
	metrics.UpdateArchivedMatches(len(s.byID))
	return nil
}

// fold applies one record to both wrestlers' standings.
// Must be called with s.mu held.
func (s *MemStore) fold(rec model.MatchRecord) {
	winner := rec.WinnerWrestler()
	loser := rec.Away
	if rec.Outcome.Winner == model.Away {
		loser = rec.Home
	}

	w := s.standingFor(winner)
	w.Wins++
	w.WinsByType[rec.Outcome.WinType]++
	l := s.standingFor(loser)
	l.Losses++

	s.standingFor(rec.Home).MatchPoints += rec.FinalScore.Home
	s.standingFor(rec.Away).MatchPoints += rec.FinalScore.Away
}

// standingFor returns the mutable standing for a wrestler, creating it on
// first sight. Must be called with s.mu held.
func (s *MemStore) standingFor(w model.Wrestler) *Standing {
	st, ok := s.standings[w.ID]
	if !ok {
		st = &Standing{Wrestler: w, WinsByType: make(map[model.WinType]int)}
		s.standings[w.ID] = st
	}
	return st
}

// Get returns the archived record for a match id.
func (s *MemStore) Get(_ context.Context, matchID string) (model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[matchID]
	if !ok {
		return model.MatchRecord{}, ErrNotFound
	}
	return rec, nil
}

// Recent returns up to limit records, most recently finished first.
func (s *MemStore) Recent(_ context.Context, limit int) ([]model.MatchRecord, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]model.MatchRecord, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

// StandingFor returns the season standing for a wrestler id.
func (s *MemStore) StandingFor(_ context.Context, wrestlerID string) (Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.standings[wrestlerID]
	if !ok {
		return Standing{}, ErrNotFound
	}
	// Copy the map so callers cannot mutate shared state.
	out := *st
	out.WinsByType = make(map[model.WinType]int, len(st.WinsByType))
	for k, v := range st.WinsByType {
		out.WinsByType[k] = v
	}
	return out, nil
}

// Count returns the number of archived matches.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
