package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is a generic sentinel for malformed or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is a generic sentinel for uniqueness violations.
	ErrConflict = errors.New("conflict")
	// ErrReferenced rejects deletion of a catalog record still referenced
	// by structures, order items or weighings.
	ErrReferenced = errors.New("record is referenced and cannot be deleted")
	// ErrIncoherentReference rejects a weighing whose order item does not
	// belong to the targeted order.
	ErrIncoherentReference = errors.New("order item does not belong to the given order")
	// ErrAlreadyGenerated rejects item generation on an order that already
	// has items, unless forced.
	ErrAlreadyGenerated = errors.New("order already has items; use force to regenerate")
	// ErrToleranceExceeded is the sentinel wrapped by ToleranceError.
	ErrToleranceExceeded = errors.New("weighed total outside tolerance band")
)

// ToleranceError carries the allowed band and the attempted totals so the
// operator can correct the weighing. All quantities are grams.
type ToleranceError struct {
	RawMaterial string
	MinAllowedG decimal.Decimal
	MaxAllowedG decimal.Decimal
	WeighedG    decimal.Decimal
	AttemptG    decimal.Decimal
	NewTotalG   decimal.Decimal
}

func (e *ToleranceError) Error() string {
	return fmt.Sprintf(
		"quantity exceeds the +/- 5%% tolerance band for %s: allowed %s g to %s g | already weighed: %s g | attempt: +%s g (total %s g)",
		e.RawMaterial,
		e.MinAllowedG.StringFixed(3),
		e.MaxAllowedG.StringFixed(3),
		e.WeighedG.StringFixed(3),
		e.AttemptG.StringFixed(3),
		e.NewTotalG.StringFixed(3),
	)
}

func (e *ToleranceError) Unwrap() error { return ErrToleranceExceeded }
