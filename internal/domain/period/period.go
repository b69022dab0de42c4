// Package period sequences regulation periods and the overtime chain.
package period

import (
	"github.com/okian/grapple/internal/domain/model"
)

// regulationPhases are created up front; overtime records are added lazily
// only when regulation ends tied.
var regulationPhases = []model.Phase{model.Period1, model.Period2, model.Period3}

// next maps a finishing overtime phase to its successor when still tied.
var next = map[model.Phase]model.Phase{
	model.Period1:       model.Period2,
	model.Period2:       model.Period3,
	model.Period3:       model.SuddenVictory,
	model.SuddenVictory: model.Tiebreaker1,
	model.Tiebreaker1:   model.Tiebreaker2,
	model.Tiebreaker2:   model.UltimateTiebreaker,
}

// Controller advances the match through its phases and snapshots each
// finished phase's score delta into a PeriodRecord.
type Controller struct {
	phase    model.Phase
	records  []model.PeriodRecord
	boundary model.Score // score at the last phase boundary
}

// New creates a Controller at the start of period one.
func New() *Controller {
	c := &Controller{phase: model.Period1}
	for _, p := range regulationPhases {
		c.records = append(c.records, model.PeriodRecord{Phase: p})
	}
	return c
}

// Phase returns the phase currently in play.
func (c *Controller) Phase() model.Phase { return c.phase }

// Advance finishes the current phase at the given cumulative score and moves
// to the next one. Periods one and two always advance; after period three
// and each overtime phase a tie continues the overtime chain and a lead ends
// the match. A tied ultimate tiebreaker cannot advance: it needs the judge's
// decision (ErrNeedsDecision).
func (c *Controller) Advance(score model.Score) (model.Phase, error) {
	switch c.phase {
	case model.Complete:
		return c.phase, ErrAlreadyComplete
	case model.Period1, model.Period2:
		c.closeCurrent(score)
		c.phase = next[c.phase]
	case model.UltimateTiebreaker:
		if score.Tied() {
			return c.phase, ErrNeedsDecision
		}
		c.closeCurrent(score)
		c.phase = model.Complete
	default:
		c.closeCurrent(score)
		if score.Tied() {
			c.phase = next[c.phase]
		} else {
			c.phase = model.Complete
		}
	}
	if c.phase.Overtime() {
		c.records = append(c.records, model.PeriodRecord{Phase: c.phase})
	}
	return c.phase, nil
}

// Terminate jumps directly to Complete from any phase, closing the phase in
// play. Used for falls, forfeits, disqualifications, tech falls and the
// ultimate-tiebreaker judge decision.
func (c *Controller) Terminate(score model.Score) model.Phase {
	if c.phase == model.Complete {
		return c.phase
	}
	c.closeCurrent(score)
	c.phase = model.Complete
	return c.phase
}

// closeCurrent snapshots the delta since the last boundary into the record
// for the phase in play and marks it completed.
func (c *Controller) closeCurrent(score model.Score) {
	for i := range c.records {
		if c.records[i].Phase == c.phase {
			c.records[i].Home = score.Home - c.boundary.Home
			c.records[i].Away = score.Away - c.boundary.Away
			c.records[i].Completed = true
			break
		}
	}
	c.boundary = score
}

// Records returns a copy of the per-phase records created so far.
func (c *Controller) Records() []model.PeriodRecord {
	out := make([]model.PeriodRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Complete reports whether the match has reached its terminal phase.
func (c *Controller) Complete() bool { return c.phase == model.Complete }
