package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrUnknownAction = errors.New("unknown action type")
	ErrEmptyLedger   = errors.New("ledger is empty")
)
