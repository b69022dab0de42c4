// Package position tracks which wrestler controls the mat.
package position

import (
	"time"

	"github.com/okian/grapple/internal/domain/model"
)

// Observer is notified after every accepted position change. The riding-time
// accumulator registers here so control changes start and stop its interval.
type Observer interface {
	// PositionChanged receives the new state and the controlling side.
	// controlling is empty for uncontrolled states.
	PositionChanged(state model.PositionState, controlling model.Side, now time.Time)
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithObserver registers an observer for position changes.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		if o != nil {
			t.observers = append(t.observers, o)
		}
	}
}

// Tracker holds the single (state, controlling side) pair. Top and bottom
// are derived views of the same relation: setting Top for one side implies
// Bottom for the other, so only the controlling side is stored.
type Tracker struct {
	state       model.PositionState
	controlling model.Side
	observers   []Observer
}

// New creates a Tracker starting in the neutral position.
func New(opts ...Option) *Tracker {
	t := &Tracker{state: model.Neutral}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Set transitions to a new position. Controlled states (top, bottom) require
// a controlling side; for Bottom the supplied side is the wrestler underneath
// and control is attributed to the opponent. Uncontrolled states clear the
// controlling side. Returns ErrInvalidState without mutating on bad input.
func (t *Tracker) Set(state model.PositionState, side model.Side, now time.Time) error {
	if !state.Valid() {
		return ErrInvalidState
	}
	controlling := model.Side("")
	if state.Controlled() {
		if !side.Valid() {
			return ErrInvalidState
		}
		controlling = side
		if state == model.Bottom {
			controlling = side.Opponent()
		}
	}

	t.state = state
	t.controlling = controlling
	for _, o := range t.observers {
		o.PositionChanged(t.state, t.controlling, now)
	}
	return nil
}

// State returns the current position state.
func (t *Tracker) State() model.PositionState { return t.state }

// Controlling returns the side in top control, or false when the current
// state carries no control relation.
func (t *Tracker) Controlling() (model.Side, bool) {
	if !t.state.Controlled() {
		return "", false
	}
	return t.controlling, true
}
