/*
ledger.go - The registered stock ledger

PURPOSE:
  Maps barcodes to Items and owns every quantity mutation for registered
  items. Decrease and increase are atomic check-and-update operations:
  the quantity is read, validated, and written while holding the ledger
  lock, so a future multi-actor extension cannot interleave a read and a
  write of the same item.

CRITICAL INVARIANTS:
  1. Registered barcodes are append-only keys: Add never overwrites
  2. Quantities never go negative: Decrease fails instead of underflowing
  3. Failed operations leave the ledger untouched

STOCK STATUS:
  Status is derived from quantity against a configured threshold
  (default 10):
    qty == 0              -> OUT_OF_STOCK
    0 < qty <= threshold  -> LOW_STOCK
    qty > threshold       -> IN_STOCK

SEE ALSO:
  - item.go: The records this ledger owns
  - service.go: Applies permission policy and alert side effects on top
*/
package inventory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultLowStockThreshold is the stock level at or below which an item is
// reported as low (when not already out of stock).
const DefaultLowStockThreshold = 10

// =============================================================================
// STOCK STATUS
// =============================================================================

type StockState string

const (
	StockNotFound StockState = "NOT_FOUND"
	StockOut      StockState = "OUT_OF_STOCK"
	StockLow      StockState = "LOW_STOCK"
	StockIn       StockState = "IN_STOCK"
)

// StockStatus is a point-in-time stock classification for one barcode.
type StockStatus struct {
	State    StockState
	Quantity int
}

func (s StockStatus) String() string {
	switch s.State {
	case StockOut:
		return "OUT OF STOCK"
	case StockLow:
		return fmt.Sprintf("LOW STOCK (%d)", s.Quantity)
	case StockIn:
		return fmt.Sprintf("IN STOCK (%d)", s.Quantity)
	default:
		return "ITEM NOT FOUND"
	}
}

// =============================================================================
// STOCK LEDGER
// =============================================================================

// StockLedger is the barcode -> Item mapping for registered items. All
// quantity mutation for registered items goes through Decrease/Increase.
type StockLedger struct {
	mu        sync.RWMutex
	items     map[string]*Item
	threshold int
	log       *zap.Logger
}

// NewStockLedger creates a ledger with the given low-stock threshold.
// A non-positive threshold selects DefaultLowStockThreshold.
func NewStockLedger(threshold int, log *zap.Logger) *StockLedger {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StockLedger{
		items:     make(map[string]*Item),
		threshold: threshold,
		log:       log,
	}
}

// Threshold returns the configured low-stock threshold.
func (l *StockLedger) Threshold() int { return l.threshold }

// Add registers an item. If the barcode is already registered the call is a
// no-op that logs a warning; registered identities are never overwritten.
// Reports whether the item was inserted.
func (l *StockLedger) Add(item *Item) bool {
	if item == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.items[item.barcode]; ok {
		l.log.Warn("item already registered, use restock to add quantity",
			zap.String("barcode", item.barcode))
		return false
	}
	l.items[item.barcode] = item
	return true
}

// Find looks up a registered item by barcode. Never mutates.
func (l *StockLedger) Find(barcode string) (*Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.items[barcode]
	return item, ok
}

// Decrease atomically subtracts stock. On any failure the ledger is
// unchanged.
func (l *StockLedger) Decrease(barcode string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[barcode]
	if !ok {
		return fmt.Errorf("decrease %s: %w", barcode, ErrItemNotFound)
	}
	if qty <= 0 {
		return fmt.Errorf("decrease %s: %w", barcode, ErrInvalidQuantity)
	}
	if !item.decrease(qty) {
		return &InsufficientStockError{
			Barcode:   item.barcode,
			Name:      item.name,
			Required:  qty,
			Available: item.quantity,
		}
	}
	return nil
}

// Increase atomically adds stock.
func (l *StockLedger) Increase(barcode string, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[barcode]
	if !ok {
		return fmt.Errorf("increase %s: %w", barcode, ErrItemNotFound)
	}
	if !item.increase(qty) {
		return fmt.Errorf("increase %s: %w", barcode, ErrInvalidQuantity)
	}
	return nil
}

// LowStockItems returns registered items with 0 < quantity <= threshold.
func (l *StockLedger) LowStockItems() []*Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*Item
	for _, item := range l.items {
		if item.quantity > 0 && item.quantity <= l.threshold {
			out = append(out, item)
		}
	}
	return out
}

// OutOfStockItems returns registered items with quantity == 0.
func (l *StockLedger) OutOfStockItems() []*Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*Item
	for _, item := range l.items {
		if item.quantity == 0 {
			out = append(out, item)
		}
	}
	return out
}

// Items returns a snapshot list of all registered items.
func (l *StockLedger) Items() []*Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Item, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item)
	}
	return out
}

// StatusOf classifies the stock level of a barcode.
func (l *StockLedger) StatusOf(barcode string) StockStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, ok := l.items[barcode]
	if !ok {
		return StockStatus{State: StockNotFound}
	}
	switch {
	case item.quantity == 0:
		return StockStatus{State: StockOut}
	case item.quantity <= l.threshold:
		return StockStatus{State: StockLow, Quantity: item.quantity}
	default:
		return StockStatus{State: StockIn, Quantity: item.quantity}
	}
}
