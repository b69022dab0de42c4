package position

import "errors"

// Sentinel kinds for position errors.
var (
	ErrInvalidState = errors.New("invalid position state")
)
