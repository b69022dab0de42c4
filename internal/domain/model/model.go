// Package model contains domain types passed between layers.
package model

import "time"

// Side identifies one of the two wrestlers in a match.
type Side string

// Side values.
const (
	Home Side = "home"
	Away Side = "away"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Valid reports whether s is one of the two known sides.
func (s Side) Valid() bool {
	return s == Home || s == Away
}

// Wrestler identifies a participant. Immutable for the duration of a match.
type Wrestler struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

// Score is a running point total for both sides.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Of returns the points for one side.
func (s Score) Of(side Side) int {
	if side == Home {
		return s.Home
	}
	return s.Away
}

// Add returns a copy of s with points added to one side.
func (s Score) Add(side Side, points int) Score {
	if side == Home {
		s.Home += points
	} else {
		s.Away += points
	}
	return s
}

// Diff returns the absolute score differential.
func (s Score) Diff() int {
	d := s.Home - s.Away
	if d < 0 {
		return -d
	}
	return d
}

// Tied reports whether both sides are level.
func (s Score) Tied() bool { return s.Home == s.Away }

// Leader returns the side currently ahead, or false when tied.
func (s Score) Leader() (Side, bool) {
	switch {
	case s.Home > s.Away:
		return Home, true
	case s.Away > s.Home:
		return Away, true
	default:
		return "", false
	}
}

// ActionType enumerates the scoring and terminal actions an operator can
// record. Values mirror the wire names used by the events endpoint.
type ActionType string

// Scoring actions.
const (
	Takedown  ActionType = "takedown"
	Escape    ActionType = "escape"
	Reversal  ActionType = "reversal"
	NearFall2 ActionType = "near_fall_2"
	NearFall3 ActionType = "near_fall_3"
	NearFall4 ActionType = "near_fall_4"
	Penalty   ActionType = "penalty"
	Stalling  ActionType = "stalling"
	Caution   ActionType = "caution"
	Warning   ActionType = "warning"

	// RidingTime is appended by the engine when the riding-time bonus
	// fires; it is not accepted from clients.
	RidingTime ActionType = "riding_time"

	// Terminal actions end the match immediately.
	Fall             ActionType = "fall"
	Forfeit          ActionType = "forfeit"
	MedicalForfeit   ActionType = "medical_forfeit"
	Disqualification ActionType = "disqualification"
	Default          ActionType = "default"
)

// pointTable fixes the point value per action. Penalty and stalling points
// go to the opponent of the acting side; terminal actions carry no points.
var pointTable = map[ActionType]int{
	Takedown:         2,
	Escape:           1,
	Reversal:         2,
	NearFall2:        2,
	NearFall3:        3,
	NearFall4:        4,
	Penalty:          1,
	Stalling:         1,
	Caution:          0,
	Warning:          0,
	RidingTime:       1,
	Fall:             0,
	Forfeit:          0,
	MedicalForfeit:   0,
	Disqualification: 0,
	Default:          0,
}

// Points returns the fixed point value for a and whether a is known.
func (a ActionType) Points() (int, bool) {
	p, ok := pointTable[a]
	return p, ok
}

// AwardedToOpponent reports whether points for a are credited to the
// opponent of the acting wrestler (infractions).
func (a ActionType) AwardedToOpponent() bool {
	return a == Penalty || a == Stalling
}

// Terminal reports whether a ends the match on its own.
func (a ActionType) Terminal() bool {
	switch a {
	case Fall, Forfeit, MedicalForfeit, Disqualification, Default:
		return true
	}
	return false
}

// Phase identifies a regulation period or overtime stage.
type Phase string

// Match phases in playing order. Overtime phases are entered only when
// regulation ends tied.
const (
	Period1            Phase = "period_1"
	Period2            Phase = "period_2"
	Period3            Phase = "period_3"
	SuddenVictory      Phase = "sudden_victory"
	Tiebreaker1        Phase = "tiebreaker_1"
	Tiebreaker2        Phase = "tiebreaker_2"
	UltimateTiebreaker Phase = "ultimate_tiebreaker"
	Complete           Phase = "complete"
)

// Overtime reports whether p is one of the overtime phases.
func (p Phase) Overtime() bool {
	switch p {
	case SuddenVictory, Tiebreaker1, Tiebreaker2, UltimateTiebreaker:
		return true
	}
	return false
}

// PositionState enumerates mat positions.
type PositionState string

// Position values. Top and bottom are two views of one relation: the model
// stores a single (state, controlling side) pair.
const (
	Neutral          PositionState = "neutral"
	Top              PositionState = "top"
	Bottom           PositionState = "bottom"
	OutOfBounds      PositionState = "out_of_bounds"
	RefereesPosition PositionState = "referee_position"
)

// Controlled reports whether the state requires a controlling side.
func (p PositionState) Controlled() bool { return p == Top || p == Bottom }

// Valid reports whether p is a known position state.
func (p PositionState) Valid() bool {
	switch p {
	case Neutral, Top, Bottom, OutOfBounds, RefereesPosition:
		return true
	}
	return false
}

// ScoringEvent is an immutable ledger entry for one recorded action.
// Snapshot holds the cumulative score after this event was applied.
type ScoringEvent struct {
	ID        string     `json:"id"`
	TS        time.Time  `json:"ts"`
	Phase     Phase      `json:"phase"`
	Side      Side       `json:"side"`
	Action    ActionType `json:"action"`
	Points    int        `json:"points"`
	AwardedTo Side       `json:"awarded_to"`
	Position  string     `json:"position,omitempty"`
	// VideoSeconds is the recording-relative timestamp supplied by the
	// video collaborator, when one exists. Never computed here.
	VideoSeconds float64 `json:"video_seconds,omitempty"`
	Snapshot     Score   `json:"snapshot"`
}

// PeriodRecord captures one phase's score delta once the phase finishes.
type PeriodRecord struct {
	Phase     Phase `json:"phase"`
	Home      int   `json:"home"`
	Away      int   `json:"away"`
	Completed bool  `json:"completed"`
}

// WinType classifies how a match was won.
type WinType string

// Win types, mutually exclusive.
const (
	WinPin              WinType = "pin"
	WinTechFall         WinType = "tech_fall"
	WinMajorDecision    WinType = "major_decision"
	WinDecision         WinType = "decision"
	WinForfeit          WinType = "forfeit"
	WinMedicalForfeit   WinType = "medical_forfeit"
	WinDisqualification WinType = "disqualification"
	WinDefault          WinType = "default"
)

// Outcome describes a terminal match result.
type Outcome struct {
	Winner     Side       `json:"winner"`
	WinType    WinType    `json:"win_type"`
	PinTime    *time.Time `json:"pin_time,omitempty"`
	PhaseEnded Phase      `json:"phase_ended,omitempty"`
}

// StatLine aggregates one wrestler's totals for the persistence shape.
type StatLine struct {
	Takedowns         int     `json:"takedowns"`
	Escapes           int     `json:"escapes"`
	Reversals         int     `json:"reversals"`
	NearFall2         int     `json:"near_fall_2"`
	NearFall3         int     `json:"near_fall_3"`
	NearFall4         int     `json:"near_fall_4"`
	Penalties         int     `json:"penalties"`
	Stalls            int     `json:"stalls"`
	Cautions          int     `json:"cautions"`
	Warnings          int     `json:"warnings"`
	RidingTimeSeconds float64 `json:"riding_time_seconds"`
	RidingTimePoint   bool    `json:"riding_time_point"`
	Points            int     `json:"points"`
}

// MatchRecord is the finalized shape handed to the persistence layer.
type MatchRecord struct {
	MatchID    string         `json:"match_id"`
	Home       Wrestler       `json:"home"`
	Away       Wrestler       `json:"away"`
	FinalScore Score          `json:"final_score"`
	HomeStats  StatLine       `json:"home_stats"`
	AwayStats  StatLine       `json:"away_stats"`
	Outcome    Outcome        `json:"outcome"`
	Periods    []PeriodRecord `json:"periods"`
	Events     []ScoringEvent `json:"events"`
	FinishedAt time.Time      `json:"finished_at"`
}

// WinnerWrestler resolves the winning wrestler reference.
func (r MatchRecord) WinnerWrestler() Wrestler {
	if r.Outcome.Winner == Home {
		return r.Home
	}
	return r.Away
}
