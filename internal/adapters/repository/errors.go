package repository

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidLimit    = errors.New("invalid results limit")
	ErrAlreadyArchived = errors.New("match already archived")
)
