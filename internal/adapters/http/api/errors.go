package api

import (
	"errors"
	"fmt"

	"github.com/okian/grapple/internal/adapters/repository"
	"github.com/okian/grapple/internal/domain/ledger"
	"github.com/okian/grapple/internal/domain/match"
	"github.com/okian/grapple/internal/domain/period"
	"github.com/okian/grapple/internal/domain/position"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind creates an error of the given sentinel kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind annotates err with both op and a sentinel kind so callers can
// match with errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// isBadRequest matches rule violations caused by the request itself.
func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, position.ErrInvalidState) ||
		errors.Is(err, ledger.ErrUnknownAction) ||
		errors.Is(err, match.ErrReservedAction) ||
		errors.Is(err, repository.ErrInvalidLimit)
}

// isConflict matches operations that are valid requests but illegal in the
// match's current state.
func isConflict(err error) bool {
	return errors.Is(err, ledger.ErrEmptyLedger) ||
		errors.Is(err, period.ErrNeedsDecision) ||
		errors.Is(err, period.ErrAlreadyComplete) ||
		errors.Is(err, match.ErrNotDecidable)
}
