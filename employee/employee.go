/*
Package employee defines the staff model for the point-of-sale engine.

PURPOSE:
  Provides the Employee identity used to authorize stock and refund
  operations, and the Role capability model that gates them.

KEY CONCEPTS:
  - Role: a tagged variant exposing capability queries. Callers never
    branch on the concrete role, only on what it is allowed to do:
      CanRestock():             may add stock back into the ledger
      CanGrantFlexibleRefund(): may set a refund amount that differs
                                from the calculated line total
  - Employee: identity + display name + accumulated worked hours.
    Equality is by ID only.

DESIGN PRINCIPLES:
  1. Capability queries over type checks: two roles today (Cashier,
     Manager), but consumers stay correct if more are added.
  2. Worked hours are monotonically non-decreasing; only AddWorkedHours
     can change them and it ignores non-positive deltas.

SEE ALSO:
  - directory.go: The login lookup (id -> Employee)
  - inventory/service.go: Uses CanRestock
  - transaction/orchestrator.go: Uses CanGrantFlexibleRefund
*/
package employee

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ROLE - Capability model
// =============================================================================

// Role identifies what a staff member is allowed to do.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
)

// CanRestock reports whether the role may add stock back into the ledger.
func (r Role) CanRestock() bool { return r == RoleManager }

// CanGrantFlexibleRefund reports whether the role may set a refund amount
// that differs from the calculated line total.
func (r Role) CanGrantFlexibleRefund() bool { return r == RoleManager }

// Label returns the display name for the role.
func (r Role) Label() string {
	switch r {
	case RoleCashier:
		return "Cashier"
	case RoleManager:
		return "Manager"
	default:
		return string(r)
	}
}

// =============================================================================
// EMPLOYEE
// =============================================================================

var (
	// ErrEmptyEmployeeID is returned when constructing an employee without an id.
	ErrEmptyEmployeeID = errors.New("employee id cannot be empty")

	// ErrEmptyEmployeeName is returned when constructing an employee without a name.
	ErrEmptyEmployeeName = errors.New("employee name cannot be empty")
)

// Employee is a staff identity. ID and Role are immutable by convention;
// worked hours only grow, through AddWorkedHours.
type Employee struct {
	ID   string
	Name string
	Role Role

	workedHours float64
}

// New creates an employee, validating id and name.
func New(id, name string, role Role) (*Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyEmployeeID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyEmployeeName
	}
	return &Employee{ID: id, Name: name, Role: role}, nil
}

// WorkedHours returns the accumulated worked hours.
func (e *Employee) WorkedHours() float64 { return e.workedHours }

// AddWorkedHours accumulates worked time. Non-positive deltas are ignored,
// keeping the total monotonically non-decreasing.
func (e *Employee) AddWorkedHours(hours float64) {
	if hours > 0 {
		e.workedHours += hours
	}
}

// Equal reports whether two employees share the same identity.
func (e *Employee) Equal(other *Employee) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.ID == other.ID
}

func (e *Employee) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Role: %s", e.ID, e.Name, e.Role.Label())
}
