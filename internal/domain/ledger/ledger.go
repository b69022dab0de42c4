// Package ledger keeps the append-only ordered list of scoring events.
//
// Event order is the sole source of truth for score history: the score at
// any point in time is the snapshot on the most recent event at or before
// that time.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/grapple/internal/domain/model"
)

// EventOption customizes a single recorded event.
type EventOption func(*model.ScoringEvent)

// WithPositionLabel annotates the event with the mat position it was scored
// from, e.g. "neutral" for a takedown.
func WithPositionLabel(label string) EventOption {
	return func(e *model.ScoringEvent) {
		e.Position = label
	}
}

// WithVideoSeconds attaches the recording-relative timestamp supplied by the
// video collaborator.
func WithVideoSeconds(seconds float64) EventOption {
	return func(e *model.ScoringEvent) {
		if seconds >= 0 {
			e.VideoSeconds = seconds
		}
	}
}

// WithTimestamp overrides the event wall-clock timestamp. Used by the match
// engine so ledger time and riding time share one clock reading.
func WithTimestamp(ts time.Time) EventOption {
	return func(e *model.ScoringEvent) {
		if !ts.IsZero() {
			e.TS = ts
		}
	}
}

// Ledger is the ordered scoring event list. Entries are immutable once
// appended; UndoLast is the only removal.
type Ledger struct {
	events []model.ScoringEvent
	score  model.Score
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Record appends an event for side performing action during phase and
// returns it. Points are looked up from the fixed table; penalty and
// stalling points are credited to the opponent of the acting wrestler.
// Returns ErrUnknownAction without appending for unrecognized actions.
func (l *Ledger) Record(side model.Side, action model.ActionType, phase model.Phase, opts ...EventOption) (model.ScoringEvent, error) {
	points, ok := action.Points()
	if !ok {
		return model.ScoringEvent{}, ErrUnknownAction
	}
	if !side.Valid() {
		return model.ScoringEvent{}, ErrUnknownAction
	}

	awardedTo := side
	if action.AwardedToOpponent() {
		awardedTo = side.Opponent()
	}

	e := model.ScoringEvent{
		ID:        uuid.NewString(),
		TS:        time.Now(),
		Phase:     phase,
		Side:      side,
		Action:    action,
		Points:    points,
		AwardedTo: awardedTo,
	}
	for _, opt := range opts {
		opt(&e)
	}
	e.Snapshot = l.score.Add(awardedTo, points)

	l.events = append(l.events, e)
	l.score = e.Snapshot
	return e, nil
}

// UndoLast removes the most recent event and restores the score to the
// previous snapshot (zero when the ledger empties). Returns the removed
// event, or ErrEmptyLedger when there is nothing to undo.
func (l *Ledger) UndoLast() (model.ScoringEvent, error) {
	if len(l.events) == 0 {
		return model.ScoringEvent{}, ErrEmptyLedger
	}
	last := l.events[len(l.events)-1]
	l.events = l.events[:len(l.events)-1]
	if len(l.events) == 0 {
		l.score = model.Score{}
	} else {
		l.score = l.events[len(l.events)-1].Snapshot
	}
	return last, nil
}

// CurrentScore returns the running score after the newest event.
func (l *Ledger) CurrentScore() model.Score { return l.score }

// Len returns the number of recorded events.
func (l *Ledger) Len() int { return len(l.events) }

// Events returns a copy of the full event list in insertion order.
func (l *Ledger) Events() []model.ScoringEvent {
	out := make([]model.ScoringEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsForPhase returns events recorded during phase, in order.
func (l *Ledger) EventsForPhase(phase model.Phase) []model.ScoringEvent {
	var out []model.ScoringEvent
	for _, e := range l.events {
		if e.Phase == phase {
			out = append(out, e)
		}
	}
	return out
}

// LastTerminal returns the most recent terminal event, if any.
func (l *Ledger) LastTerminal() (model.ScoringEvent, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Action.Terminal() {
			return l.events[i], true
		}
	}
	return model.ScoringEvent{}, false
}

// Stats aggregates side's totals for the persistence shape. Riding time
// fields are filled in by the match engine, which owns the accumulator.
func (l *Ledger) Stats(side model.Side) model.StatLine {
	var s model.StatLine
	for _, e := range l.events {
		if e.AwardedTo == side {
			s.Points += e.Points
		}
		if e.Side != side {
			continue
		}
		switch e.Action {
		case model.Takedown:
			s.Takedowns++
		case model.Escape:
			s.Escapes++
		case model.Reversal:
			s.Reversals++
		case model.NearFall2:
			s.NearFall2++
		case model.NearFall3:
			s.NearFall3++
		case model.NearFall4:
			s.NearFall4++
		case model.Penalty:
			s.Penalties++
		case model.Stalling:
			s.Stalls++
		case model.Caution:
			s.Cautions++
		case model.Warning:
			s.Warnings++
		case model.RidingTime:
			s.RidingTimePoint = true
		}
	}
	return s
}
