package match

import "errors"

// Sentinel kinds for match engine errors.
var (
	ErrMatchComplete    = errors.New("match already complete")
	ErrMatchNotComplete = errors.New("match not complete")
	ErrReservedAction   = errors.New("action is engine-generated")
	ErrNotDecidable     = errors.New("no tied ultimate tiebreaker to decide")
)
