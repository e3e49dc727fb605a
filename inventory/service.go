/*
service.go - The inventory facade

PURPOSE:
  Unifies the registered stock ledger and the session item registry
  behind one lookup, and layers policy on top of raw ledger operations:
  - Sell is a no-op success for ad-hoc items (they impose no stock
    constraint) and a ledger decrease otherwise
  - Restock is permission-gated (employee.CanRestock) and refuses
    ad-hoc items
  - After any successful mutation, the item's new status is evaluated
    and a low-stock or out-of-stock alert is emitted

ALERT CONTRACT:
  Alerts are advisory side effects, never blocking and never errors.
  The default alert logs through zap; callers (the UI layer) can install
  their own AlertFunc to surface warnings however they like.

SEE ALSO:
  - ledger.go: Raw atomic stock operations
  - session.go: Ad-hoc item store
  - transaction/orchestrator.go: Drives Sell/Restock during workflows
*/
package inventory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/warp/pos-engine/employee"
)

// =============================================================================
// STOCK ALERTS
// =============================================================================

// StockAlert describes a threshold crossing observed after a successful
// stock mutation.
type StockAlert struct {
	Barcode    string
	Name       string
	Remaining  int
	OutOfStock bool
}

// AlertFunc receives advisory stock alerts.
type AlertFunc func(StockAlert)

// =============================================================================
// SERVICE - The facade over ledger + session registry
// =============================================================================

// Service is the single entry point callers use for item lookup and stock
// mutation. It owns no items itself; the ledger and registry do.
type Service struct {
	ledger  *StockLedger
	session *SessionRegistry
	log     *zap.Logger
	alert   AlertFunc
}

// NewService wires the facade. The default alert function logs through the
// given logger.
func NewService(ledger *StockLedger, session *SessionRegistry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{ledger: ledger, session: session, log: log}
	s.alert = s.logAlert
	return s
}

// OnAlert installs a custom alert receiver. A nil fn restores the default
// logging alert.
func (s *Service) OnAlert(fn AlertFunc) {
	if fn == nil {
		s.alert = s.logAlert
		return
	}
	s.alert = fn
}

func (s *Service) logAlert(a StockAlert) {
	if a.OutOfStock {
		s.log.Warn("out of stock alert",
			zap.String("barcode", a.Barcode),
			zap.String("name", a.Name))
		return
	}
	s.log.Warn("low stock warning",
		zap.String("barcode", a.Barcode),
		zap.String("name", a.Name),
		zap.Int("remaining", a.Remaining))
}

// =============================================================================
// LOOKUP
// =============================================================================

// FindAny resolves a barcode against the ledger first, then the session
// registry. A registered identity always wins ties.
func (s *Service) FindAny(barcode string) (*Item, bool) {
	if item, ok := s.ledger.Find(barcode); ok {
		return item, true
	}
	return s.session.Find(barcode)
}

// IsLedgerItem reports whether the barcode is registered in the ledger,
// i.e. whether stock rules apply to it.
func (s *Service) IsLedgerItem(barcode string) bool {
	_, ok := s.ledger.Find(barcode)
	return ok
}

// AddItem registers an item in the ledger. Reports whether it was inserted.
func (s *Service) AddItem(item *Item) bool {
	return s.ledger.Add(item)
}

// AddTemporaryItem stores an ad-hoc item for the current session.
func (s *Service) AddTemporaryItem(item *Item) {
	s.session.Add(item)
	if item != nil {
		s.log.Info("added session item",
			zap.String("barcode", item.barcode),
			zap.String("name", item.name))
	}
}

// =============================================================================
// STOCK MUTATION
// =============================================================================

// Sell processes the stock effect of selling qty units of a barcode.
// Ad-hoc items impose no stock constraint, so a non-ledger barcode is a
// successful no-op. For ledger items the decrease must succeed; the new
// status is then checked for an alert.
func (s *Service) Sell(barcode string, qty int) error {
	if !s.IsLedgerItem(barcode) {
		return nil
	}
	if err := s.ledger.Decrease(barcode, qty); err != nil {
		return err
	}
	s.notifyStatus(barcode)
	return nil
}

// Restock adds stock back to a ledger item, subject to the acting
// employee's capability. Ad-hoc items cannot be restocked.
func (s *Service) Restock(barcode string, qty int, emp *employee.Employee) error {
	if qty <= 0 {
		return fmt.Errorf("restock %s: %w", barcode, ErrInvalidQuantity)
	}
	if emp == nil {
		return fmt.Errorf("restock %s: %w", barcode, ErrMissingEmployee)
	}
	if !emp.Role.CanRestock() {
		return &PermissionDeniedError{EmployeeID: emp.ID, Role: emp.Role, Action: "restock"}
	}
	if !s.IsLedgerItem(barcode) {
		return fmt.Errorf("restock %s: %w", barcode, ErrNotLedgerItem)
	}
	if err := s.ledger.Increase(barcode, qty); err != nil {
		return err
	}
	s.log.Info("restocked item",
		zap.String("barcode", barcode),
		zap.Int("quantity", qty),
		zap.String("employee", emp.ID))
	s.notifyStatus(barcode)
	return nil
}

// notifyStatus evaluates the item's status after a successful mutation and
// emits an alert when a threshold is crossed. Advisory only.
func (s *Service) notifyStatus(barcode string) {
	item, ok := s.ledger.Find(barcode)
	if !ok {
		return
	}
	switch status := s.ledger.StatusOf(barcode); status.State {
	case StockOut:
		s.alert(StockAlert{Barcode: barcode, Name: item.Name(), Remaining: 0, OutOfStock: true})
	case StockLow:
		s.alert(StockAlert{Barcode: barcode, Name: item.Name(), Remaining: status.Quantity})
	}
}

// =============================================================================
// REPORTING
// =============================================================================

// LowStockItems lists ledger items at or below the threshold (and not out).
func (s *Service) LowStockItems() []*Item { return s.ledger.LowStockItems() }

// OutOfStockItems lists ledger items with no stock left.
func (s *Service) OutOfStockItems() []*Item { return s.ledger.OutOfStockItems() }

// Items lists all registered ledger items.
func (s *Service) Items() []*Item { return s.ledger.Items() }

// StatusOf classifies a barcode's stock level. Only ledger items have a
// status; ad-hoc items report NOT_FOUND here by design.
func (s *Service) StatusOf(barcode string) StockStatus { return s.ledger.StatusOf(barcode) }

// LowStockThreshold exposes the configured threshold for reporting consumers.
func (s *Service) LowStockThreshold() int { return s.ledger.Threshold() }
