/*
errors.go - Workflow error types for sale and return processing

PURPOSE:
  All transaction-level errors in one place. Stock-level errors
  (insufficient stock, permission denial) come from the inventory
  package and flow through unwrapped, so callers match both layers
  with errors.Is / errors.As.

SEE ALSO:
  - orchestrator.go: Produces these errors
  - inventory/errors.go: Stock-side errors reused by the sale path
*/
package transaction

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/pos-engine/inventory"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyTransaction is returned when a sale or return has no lines.
	ErrEmptyTransaction = errors.New("transaction has no line items")

	// ErrMissingActor is returned when no processing employee is supplied.
	ErrMissingActor = errors.New("processing employee is required")

	// ErrMissingOriginalID is returned when a return does not reference the
	// original receipt.
	ErrMissingOriginalID = errors.New("original receipt id is required for returns")

	// ErrNegativeRefund is returned when a supplied refund amount is negative.
	ErrNegativeRefund = errors.New("refund amount cannot be negative")

	// ErrRefundExceedsValue is returned when a non-privileged actor attempts
	// to refund more than the calculated line total.
	ErrRefundExceedsValue = errors.New("refund exceeds calculated value")

	// ErrStockMutationFailed is returned when a validated decrease fails
	// mid-commit. Prior decrements in the same sale are not rolled back.
	ErrStockMutationFailed = errors.New("stock mutation failed")

	// ErrDuplicateReceiptID is returned when an archive append collides with
	// an existing receipt id. The archive is append-only.
	ErrDuplicateReceiptID = errors.New("duplicate receipt id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RefundExceedsValueError reports an over-refund attempt by a non-privileged
// actor.
type RefundExceedsValueError struct {
	Calculated decimal.Decimal
	Attempted  decimal.Decimal
}

func (e *RefundExceedsValueError) Error() string {
	return fmt.Sprintf("refund exceeds calculated value: calculated $%s, attempted $%s",
		e.Calculated.StringFixed(2), e.Attempted.StringFixed(2))
}

func (e *RefundExceedsValueError) Unwrap() error {
	return ErrRefundExceedsValue
}

// StockMutationError reports which item failed a validated decrease.
type StockMutationError struct {
	Barcode string
}

func (e *StockMutationError) Error() string {
	return fmt.Sprintf("failed to decrease stock for item %s, sale aborted", e.Barcode)
}

func (e *StockMutationError) Unwrap() error {
	return ErrStockMutationFailed
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyTransaction) ||
		errors.Is(err, ErrMissingActor) ||
		errors.Is(err, ErrMissingOriginalID) ||
		errors.Is(err, ErrNegativeRefund) ||
		errors.Is(err, ErrRefundExceedsValue) ||
		inventory.IsClientError(err)
}
