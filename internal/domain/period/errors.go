package period

import "errors"

// Sentinel kinds for period errors.
var (
	ErrAlreadyComplete = errors.New("match already complete")
	ErrNeedsDecision   = errors.New("tied ultimate tiebreaker needs a decision")
)
