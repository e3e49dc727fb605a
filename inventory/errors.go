/*
errors.go - Centralized error types for the inventory core

PURPOSE:
  All stock-side error types in one place for consistency and
  discoverability. The transaction package wraps these with its own
  workflow errors.

ERROR CATEGORIES:
  1. Lookup errors - Unknown barcodes
  2. Validation errors - Invalid quantities, underflow
  3. Policy errors - Permission and ledger-membership violations

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, inventory.ErrInsufficientStock) { ... }

    var stockErr *inventory.InsufficientStockError
    if errors.As(err, &stockErr) {
        fmt.Println(stockErr.Required, stockErr.Available)
    }

SEE ALSO:
  - ledger.go: Produces lookup/validation errors
  - service.go: Produces policy errors
  - transaction/errors.go: Workflow-level errors
*/
package inventory

import (
	"errors"
	"fmt"

	"github.com/warp/pos-engine/employee"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrItemNotFound is returned when a barcode is not registered in the ledger.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidQuantity is returned when a stock operation is asked to move
	// a zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInsufficientStock is returned when a decrease would underflow.
	// The ledger fails rather than letting a quantity go negative.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotLedgerItem is returned when a stock operation targets an ad-hoc
	// session item. Session items carry no stock semantics.
	ErrNotLedgerItem = errors.New("item is not stock-tracked")

	// ErrPermissionDenied is returned when the acting employee lacks the
	// capability an operation requires.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMissingEmployee is returned when a permission-gated operation is
	// invoked without an acting employee.
	ErrMissingEmployee = errors.New("employee is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports a stock shortfall for a specific item.
type InsufficientStockError struct {
	Barcode   string
	Name      string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %q (%s): required %d, available %d",
		e.Name, e.Barcode, e.Required, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// PermissionDeniedError reports which employee was denied which action.
type PermissionDeniedError struct {
	EmployeeID string
	Role       employee.Role
	Action     string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: employee %s (%s) cannot perform %s",
		e.EmployeeID, e.Role.Label(), e.Action)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates an unknown barcode.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotLedgerItem) ||
		errors.Is(err, ErrMissingEmployee)
}
