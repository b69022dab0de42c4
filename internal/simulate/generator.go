package simulate

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/grapple/pkg/logger"
)

// Constants for random draw ranges.
const (
	actionDrawRange   = 100
	movesPerPeriodMin = 2
	movesPerPeriodMax = 6
	regulationPeriods = 3
)

// Cumulative weights for the action distribution.
const (
	weightTakedown = 35
	weightEscape   = 60
	weightReversal = 75
	weightNearFall = 85
	weightStalling = 95
	weightPenalty  = 100
)

// Per-match special outcomes, in percent.
const (
	pinChance      = 8
	techFallChance = 5
)

var homeTeams = []string{"Hawkeyes", "Nittany Lions", "Cowboys", "Wolverines"}
var awayTeams = []string{"Buckeyes", "Cornhuskers", "Gophers", "Spartans"}

// scriptedMove is one attempted scoring action in a planned match.
type scriptedMove struct {
	Side   string
	Action string
}

// matchScript is a full planned match. Periods holds the regulation action
// plan; Overtime is submitted only when regulation ends tied. PinPeriod, when
// non-negative, ends the match with a fall during that period.
type matchScript struct {
	Home      wrestlerPayload
	Away      wrestlerPayload
	Periods   [][]scriptedMove
	Overtime  scriptedMove
	PinPeriod int
	PinSide   string
}

// drawInt returns a random int in [0, n) using crypto/rand.
func drawInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// drawSide returns home or away with equal probability.
func drawSide() string {
	if drawInt(2) == 0 {
		return "home"
	}
	return "away"
}

// generateScripts creates the planned matches for a simulation run.
func generateScripts(ctx context.Context, config *Config, stats *Stats) []matchScript {
	logger.Get().Info(ctx, "generating match scripts", logger.Int("numMatches", config.NumMatches))

	scripts := make([]matchScript, config.NumMatches)
	for i := range scripts {
		scripts[i] = generateSingleScript(i)
	}

	stats.MatchesPlanned = len(scripts)
	logger.Get().Info(ctx, "generated match scripts", logger.Int("count", len(scripts)))
	return scripts
}

// generateSingleScript plans one match with a varied action mix.
func generateSingleScript(index int) matchScript {
	script := matchScript{
		Home: wrestlerPayload{
			ID:   uuid.New().String(),
			Name: "Home Wrestler " + strconv.Itoa(index),
			Team: homeTeams[drawInt(len(homeTeams))],
		},
		Away: wrestlerPayload{
			ID:   uuid.New().String(),
			Name: "Away Wrestler " + strconv.Itoa(index),
			Team: awayTeams[drawInt(len(awayTeams))],
		},
		Periods:   make([][]scriptedMove, regulationPeriods),
		Overtime:  scriptedMove{Side: drawSide(), Action: "takedown"},
		PinPeriod: -1,
	}

	outcomeDraw := drawInt(actionDrawRange)
	switch {
	case outcomeDraw < pinChance:
		script.PinPeriod = drawInt(regulationPeriods)
		script.PinSide = drawSide()
	case outcomeDraw < pinChance+techFallChance:
		// Pile one-sided near falls into the plan so the point gap opens up.
		side := drawSide()
		for p := 0; p < regulationPeriods; p++ {
			script.Periods[p] = []scriptedMove{
				{Side: side, Action: "takedown"},
				{Side: side, Action: "near_fall_4"},
				{Side: side, Action: "near_fall_3"},
			}
		}
		return script
	}

	for p := 0; p < regulationPeriods; p++ {
		moveCount := movesPerPeriodMin + drawInt(movesPerPeriodMax-movesPerPeriodMin+1)
		moves := make([]scriptedMove, 0, moveCount)
		for m := 0; m < moveCount; m++ {
			moves = append(moves, scriptedMove{Side: drawSide(), Action: drawAction()})
		}
		script.Periods[p] = moves
	}
	return script
}

// drawAction picks a scoring action from the weighted distribution.
func drawAction() string {
	draw := drawInt(actionDrawRange)
	switch {
	case draw < weightTakedown:
		return "takedown"
	case draw < weightEscape:
		return "escape"
	case draw < weightReversal:
		return "reversal"
	case draw < weightNearFall:
		return "near_fall_2"
	case draw < weightStalling:
		return "stalling"
	default:
		return "penalty"
	}
}
