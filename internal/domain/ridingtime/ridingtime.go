// Package ridingtime accumulates top-control time and derives the
// riding-time advantage and its one-shot bonus point.
//
// Accumulation is analytic: an interval opens when a side takes control with
// the clock running and is committed on the next stop, so there is no
// periodic tick to drift or clean up.
package ridingtime

import (
	"time"

	"github.com/okian/grapple/internal/domain/model"
)

// DefaultBonusThreshold is the net advantage that earns the bonus point.
const DefaultBonusThreshold = 60 * time.Second

// Option applies a configuration option to the Accumulator.
type Option func(*Accumulator)

// WithBonusThreshold overrides the advantage needed for the bonus point.
func WithBonusThreshold(d time.Duration) Option {
	return func(a *Accumulator) {
		if d > 0 {
			a.bonusThreshold = d
		}
	}
}

// Accumulator tracks committed control time per side plus at most one open
// interval. Accumulators only ever grow, and only one side's grows at a
// time (control is mutually exclusive by construction).
type Accumulator struct {
	home time.Duration
	away time.Duration

	openSide  model.Side
	openSince time.Time
	open      bool

	bonusThreshold time.Duration
	bonusAwarded   bool
}

// New creates an Accumulator with the standard 60 second threshold.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{bonusThreshold: DefaultBonusThreshold}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start opens an interval for side at now. Any open interval is committed
// first, so switching control never loses time.
func (a *Accumulator) Start(side model.Side, now time.Time) {
	if !side.Valid() {
		return
	}
	a.Stop(now)
	a.openSide = side
	a.openSince = now
	a.open = true
}

// Stop commits the open interval, if any, at now.
func (a *Accumulator) Stop(now time.Time) {
	if !a.open {
		return
	}
	elapsed := now.Sub(a.openSince)
	if elapsed > 0 {
		if a.openSide == model.Home {
			a.home += elapsed
		} else {
			a.away += elapsed
		}
	}
	a.open = false
}

// Running reports whether an interval is currently open.
func (a *Accumulator) Running() bool { return a.open }

// Accumulated returns side's control time as of now, including the open
// interval's uncommitted share.
func (a *Accumulator) Accumulated(side model.Side, now time.Time) time.Duration {
	total := a.home
	if side == model.Away {
		total = a.away
	}
	if a.open && a.openSide == side {
		if d := now.Sub(a.openSince); d > 0 {
			total += d
		}
	}
	return total
}

// NetAdvantage returns the absolute advantage between the two sides.
func (a *Accumulator) NetAdvantage(now time.Time) time.Duration {
	d := a.Accumulated(model.Home, now) - a.Accumulated(model.Away, now)
	if d < 0 {
		return -d
	}
	return d
}

// AdvantageSide returns the side ahead on riding time, or false when level.
func (a *Accumulator) AdvantageSide(now time.Time) (model.Side, bool) {
	h := a.Accumulated(model.Home, now)
	w := a.Accumulated(model.Away, now)
	switch {
	case h > w:
		return model.Home, true
	case w > h:
		return model.Away, true
	default:
		return "", false
	}
}

// CheckBonus returns the advantage side the first time the net advantage
// reaches the threshold. It fires at most once per match: the point stays
// awarded even if the lead later changes hands.
func (a *Accumulator) CheckBonus(now time.Time) (model.Side, bool) {
	if a.bonusAwarded {
		return "", false
	}
	if a.NetAdvantage(now) < a.bonusThreshold {
		return "", false
	}
	side, ok := a.AdvantageSide(now)
	if !ok {
		return "", false
	}
	a.bonusAwarded = true
	return side, true
}

// BonusAwarded reports whether the bonus point has fired.
func (a *Accumulator) BonusAwarded() bool { return a.bonusAwarded }
