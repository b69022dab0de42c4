package outcome

import "errors"

// Sentinel kinds for outcome errors.
var (
	ErrNoWinner    = errors.New("tied score with no terminal event")
	ErrNotTerminal = errors.New("event does not end a match")
)
