// Package outcome classifies terminal match results.
package outcome

import (
	"fmt"

	"github.com/okian/grapple/internal/domain/model"
)

// Score-differential thresholds for the decision win types.
const (
	techFallGap      = 15
	majorDecisionGap = 8
)

// terminalWinTypes maps a terminal action to its win type. The winner is the
// acting side for a fall and the opponent of the charged side otherwise.
var terminalWinTypes = map[model.ActionType]model.WinType{
	model.Fall:             model.WinPin,
	model.Forfeit:          model.WinForfeit,
	model.MedicalForfeit:   model.WinMedicalForfeit,
	model.Disqualification: model.WinDisqualification,
	model.Default:          model.WinDefault,
}

// Resolve determines the winner and win type from the final score and, when
// present, the terminal event that ended the match. A terminal event decides
// the win type unconditionally regardless of points; otherwise the win type
// follows the score differential. Returns ErrNoWinner for a tied score with
// no terminal event.
func Resolve(score model.Score, terminal *model.ScoringEvent) (model.Outcome, error) {
	if terminal != nil {
		wt, ok := terminalWinTypes[terminal.Action]
		if !ok {
			return model.Outcome{}, fmt.Errorf("resolve: %w: %s", ErrNotTerminal, terminal.Action)
		}
		winner := terminal.Side
		if terminal.Action != model.Fall {
			// Infractions award the match to the opponent.
			winner = terminal.Side.Opponent()
		}
		out := model.Outcome{Winner: winner, WinType: wt, PhaseEnded: terminal.Phase}
		if terminal.Action == model.Fall {
			ts := terminal.TS
			out.PinTime = &ts
		}
		return out, nil
	}

	leader, ok := score.Leader()
	if !ok {
		return model.Outcome{}, ErrNoWinner
	}
	return model.Outcome{Winner: leader, WinType: winTypeForGap(score.Diff())}, nil
}

// winTypeForGap classifies a non-zero final score differential.
func winTypeForGap(gap int) model.WinType {
	switch {
	case gap >= techFallGap:
		return model.WinTechFall
	case gap >= majorDecisionGap:
		return model.WinMajorDecision
	default:
		return model.WinDecision
	}
}

// TechFall reports whether the score differential forces an immediate match
// end. This is a stopping condition, checked after every scoring event, not
// a post-hoc label.
func TechFall(score model.Score) bool {
	return score.Diff() >= techFallGap
}

// Describe renders a result line for display, e.g.
// "Smith (Central) won by tech fall, 18-3".
func Describe(out model.Outcome, winner model.Wrestler, score model.Score) string {
	label := map[model.WinType]string{
		model.WinPin:              "fall",
		model.WinTechFall:         "tech fall",
		model.WinMajorDecision:    "major decision",
		model.WinDecision:         "decision",
		model.WinForfeit:          "forfeit",
		model.WinMedicalForfeit:   "medical forfeit",
		model.WinDisqualification: "disqualification",
		model.WinDefault:          "default",
	}[out.WinType]

	hi, lo := score.Home, score.Away
	if hi < lo {
		hi, lo = lo, hi
	}
	switch out.WinType {
	case model.WinPin:
		if out.PinTime != nil {
			return fmt.Sprintf("%s (%s) won by %s at %s", winner.Name, winner.Team, label, out.PinTime.Format("15:04:05"))
		}
		return fmt.Sprintf("%s (%s) won by %s", winner.Name, winner.Team, label)
	case model.WinForfeit, model.WinMedicalForfeit, model.WinDisqualification, model.WinDefault:
		return fmt.Sprintf("%s (%s) won by %s", winner.Name, winner.Team, label)
	default:
		return fmt.Sprintf("%s (%s) won by %s, %d-%d", winner.Name, winner.Team, label, hi, lo)
	}
}
