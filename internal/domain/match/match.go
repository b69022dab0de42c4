// Package match composes the position tracker, riding-time accumulator,
// scoring ledger, period controller and outcome resolver into the state
// machine a scoring UI drives.
//
// A Match is not safe for concurrent use: one match is scored by one
// operator, and the app layer serializes access per match.
package match

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/grapple/internal/domain/ledger"
	"github.com/okian/grapple/internal/domain/model"
	"github.com/okian/grapple/internal/domain/outcome"
	"github.com/okian/grapple/internal/domain/period"
	"github.com/okian/grapple/internal/domain/position"
	"github.com/okian/grapple/internal/domain/ridingtime"
)

// Option applies a configuration option to the Match.
type Option func(*Match)

// WithID sets the match id instead of generating one.
func WithID(id string) Option {
	return func(m *Match) {
		if id != "" {
			m.id = id
		}
	}
}

// WithClock injects the time source. Tests use this to drive riding time
// deterministically.
func WithClock(now func() time.Time) Option {
	return func(m *Match) {
		if now != nil {
			m.now = now
		}
	}
}

// WithBonusThreshold overrides the riding-time advantage needed for the
// bonus point.
func WithBonusThreshold(d time.Duration) Option {
	return func(m *Match) {
		if d > 0 {
			m.bonusThreshold = d
		}
	}
}

// Match is the live scoring state machine for a single bout.
type Match struct {
	id   string
	home model.Wrestler
	away model.Wrestler

	ledger  *ledger.Ledger
	pos     *position.Tracker
	riding  *ridingtime.Accumulator
	periods *period.Controller

	clockRunning bool
	outcome      *model.Outcome
	finishedAt   time.Time

	now            func() time.Time
	bonusThreshold time.Duration
}

// Status is the read shape the UI renders between operations.
type Status struct {
	MatchID          string               `json:"match_id"`
	Home             model.Wrestler       `json:"home"`
	Away             model.Wrestler       `json:"away"`
	Score            model.Score          `json:"score"`
	Phase            model.Phase          `json:"phase"`
	Position         model.PositionState  `json:"position"`
	Controlling      model.Side           `json:"controlling,omitempty"`
	ClockRunning     bool                 `json:"clock_running"`
	RidingHomeSecs   float64              `json:"riding_home_seconds"`
	RidingAwaySecs   float64              `json:"riding_away_seconds"`
	RidingBonusFired bool                 `json:"riding_bonus_fired"`
	EventCount       int                  `json:"event_count"`
	Periods          []model.PeriodRecord `json:"periods"`
	Outcome          *model.Outcome       `json:"outcome,omitempty"`
	Result           string               `json:"result,omitempty"`
}

// New creates a Match between home and away, starting in period one,
// neutral position, clock stopped.
func New(home, away model.Wrestler, opts ...Option) *Match {
	m := &Match{
		id:             uuid.NewString(),
		home:           home,
		away:           away,
		ledger:         ledger.New(),
		periods:        period.New(),
		now:            time.Now,
		bonusThreshold: ridingtime.DefaultBonusThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.riding = ridingtime.New(ridingtime.WithBonusThreshold(m.bonusThreshold))
	m.pos = position.New(position.WithObserver(m))
	return m
}

// ID returns the match id.
func (m *Match) ID() string { return m.id }

// Complete reports whether the match has finished.
func (m *Match) Complete() bool { return m.outcome != nil }

// PositionChanged implements position.Observer: entering top or bottom
// while the clock runs rotates the open riding interval to the controlling
// side; leaving control freezes accumulation for both.
func (m *Match) PositionChanged(state model.PositionState, controlling model.Side, now time.Time) {
	if state.Controlled() && m.clockRunning {
		m.riding.Start(controlling, now)
		return
	}
	m.riding.Stop(now)
}

// RecordAction appends a scoring event for side and applies every rule that
// can end the match: terminal actions, the tech-fall stopping condition and
// sudden-victory scoring. The riding-time bonus is checked first so its
// point lands before the tech-fall test.
func (m *Match) RecordAction(side model.Side, action model.ActionType, opts ...ledger.EventOption) (model.ScoringEvent, error) {
	if m.Complete() {
		return model.ScoringEvent{}, ErrMatchComplete
	}
	if action == model.RidingTime {
		return model.ScoringEvent{}, ErrReservedAction
	}

	now := m.now()
	opts = append(opts, ledger.WithTimestamp(now))
	ev, err := m.ledger.Record(side, action, m.periods.Phase(), opts...)
	if err != nil {
		return model.ScoringEvent{}, err
	}

	if action.Terminal() {
		m.finish(now)
		out, rerr := outcome.Resolve(m.ledger.CurrentScore(), &ev)
		if rerr != nil {
			return ev, rerr
		}
		m.outcome = &out
		return ev, nil
	}

	m.maybeAwardRidingBonus(now)
	m.checkStoppingConditions(now)
	return ev, nil
}

// SetPosition updates mat position. Top requires the controlling side;
// bottom names the wrestler underneath and control is derived.
func (m *Match) SetPosition(state model.PositionState, side model.Side) error {
	if m.Complete() {
		return ErrMatchComplete
	}
	return m.pos.Set(state, side, m.now())
}

// StartClock resumes the match clock; riding time accumulates again when a
// controlled position is held.
func (m *Match) StartClock() error {
	if m.Complete() {
		return ErrMatchComplete
	}
	if m.clockRunning {
		return nil
	}
	m.clockRunning = true
	if controlling, ok := m.pos.Controlling(); ok {
		m.riding.Start(controlling, m.now())
	}
	return nil
}

// StopClock pauses the match clock and freezes riding time immediately.
func (m *Match) StopClock() error {
	if m.Complete() {
		return ErrMatchComplete
	}
	now := m.now()
	m.riding.Stop(now)
	m.clockRunning = false
	m.maybeAwardRidingBonus(now)
	m.checkStoppingConditions(now)
	return nil
}

// AdvancePeriod closes the phase in play. The clock stops across period
// breaks. When the controller reaches its terminal state the outcome is
// resolved from the final score.
func (m *Match) AdvancePeriod() (model.Phase, error) {
	if m.Complete() {
		return model.Complete, ErrMatchComplete
	}
	now := m.now()
	m.riding.Stop(now)
	m.clockRunning = false
	m.maybeAwardRidingBonus(now)

	next, err := m.periods.Advance(m.ledger.CurrentScore())
	if err != nil {
		return next, err
	}
	if next == model.Complete {
		m.finishedAt = now
		out, rerr := outcome.Resolve(m.ledger.CurrentScore(), nil)
		if rerr != nil {
			return next, rerr
		}
		m.outcome = &out
	}
	return next, nil
}

// DecideUltimateTiebreaker applies the judge's pick when the ultimate
// tiebreaker ends tied. The tie-break criteria themselves are external
// input, never computed here.
func (m *Match) DecideUltimateTiebreaker(winner model.Side) error {
	if m.Complete() {
		return ErrMatchComplete
	}
	if m.periods.Phase() != model.UltimateTiebreaker {
		return ErrNotDecidable
	}
	if !winner.Valid() {
		return ErrNotDecidable
	}
	m.finish(m.now())
	m.outcome = &model.Outcome{
		Winner:     winner,
		WinType:    model.WinDecision,
		PhaseEnded: model.UltimateTiebreaker,
	}
	return nil
}

// UndoLast removes the newest ledger event and restores the prior score
// snapshot. Coupled position and riding-time side effects are not
// reconstructed, and a completed match stays frozen.
func (m *Match) UndoLast() (model.ScoringEvent, error) {
	if m.Complete() {
		return model.ScoringEvent{}, ErrMatchComplete
	}
	return m.ledger.UndoLast()
}

// Snapshot returns the current read state for rendering.
func (m *Match) Snapshot() Status {
	now := m.now()
	st := Status{
		MatchID:          m.id,
		Home:             m.home,
		Away:             m.away,
		Score:            m.ledger.CurrentScore(),
		Phase:            m.periods.Phase(),
		Position:         m.pos.State(),
		ClockRunning:     m.clockRunning,
		RidingHomeSecs:   m.riding.Accumulated(model.Home, now).Seconds(),
		RidingAwaySecs:   m.riding.Accumulated(model.Away, now).Seconds(),
		RidingBonusFired: m.riding.BonusAwarded(),
		EventCount:       m.ledger.Len(),
		Periods:          m.periods.Records(),
		Outcome:          m.outcome,
	}
	if controlling, ok := m.pos.Controlling(); ok {
		st.Controlling = controlling
	}
	if m.outcome != nil {
		st.Result = outcome.Describe(*m.outcome, m.winner(), st.Score)
	}
	return st
}

// Events returns the ordered scoring event list.
func (m *Match) Events() []model.ScoringEvent { return m.ledger.Events() }

// Record serializes the finished match into the persistence shape. Returns
// ErrMatchNotComplete while the match is live.
func (m *Match) Record() (model.MatchRecord, error) {
	if !m.Complete() {
		return model.MatchRecord{}, ErrMatchNotComplete
	}
	now := m.finishedAt
	homeStats := m.ledger.Stats(model.Home)
	awayStats := m.ledger.Stats(model.Away)
	homeStats.RidingTimeSeconds = m.riding.Accumulated(model.Home, now).Seconds()
	awayStats.RidingTimeSeconds = m.riding.Accumulated(model.Away, now).Seconds()

	return model.MatchRecord{
		MatchID:    m.id,
		Home:       m.home,
		Away:       m.away,
		FinalScore: m.ledger.CurrentScore(),
		HomeStats:  homeStats,
		AwayStats:  awayStats,
		Outcome:    *m.outcome,
		Periods:    m.periods.Records(),
		Events:     m.ledger.Events(),
		FinishedAt: m.finishedAt,
	}, nil
}

// finish halts the clock and the period controller at the current score.
func (m *Match) finish(now time.Time) {
	m.riding.Stop(now)
	m.clockRunning = false
	m.periods.Terminate(m.ledger.CurrentScore())
	m.finishedAt = now
}

// maybeAwardRidingBonus appends the one-shot riding-time point when the net
// advantage first reaches the threshold. Checked at every suspension point;
// mid-interval crossings land on the next check.
func (m *Match) maybeAwardRidingBonus(now time.Time) {
	side, fired := m.riding.CheckBonus(now)
	if !fired {
		return
	}
	_, _ = m.ledger.Record(side, model.RidingTime, m.periods.Phase(), ledger.WithTimestamp(now))
}

// checkStoppingConditions ends the match when the tech-fall gap is reached
// or a sudden-victory score breaks the tie.
func (m *Match) checkStoppingConditions(now time.Time) {
	if m.Complete() {
		return
	}
	score := m.ledger.CurrentScore()
	techFall := outcome.TechFall(score)
	suddenDeath := m.periods.Phase() == model.SuddenVictory && !score.Tied()
	if !techFall && !suddenDeath {
		return
	}
	m.finish(now)
	out, err := outcome.Resolve(score, nil)
	if err != nil {
		return
	}
	m.outcome = &out
}

// winner returns the winning wrestler reference for display.
func (m *Match) winner() model.Wrestler {
	if m.outcome != nil && m.outcome.Winner == model.Away {
		return m.away
	}
	return m.home
}
