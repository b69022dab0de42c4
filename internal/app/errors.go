package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrMatchNotFound = errors.New("match not found")
)
