/*
Package transaction implements sale and return processing for the
point-of-sale engine.

PURPOSE:
  Captures transaction lines (LineItem), produces immutable receipts
  (Receipt), archives them (Archive), and orchestrates the sale/return
  workflows against the inventory facade (Orchestrator).

KEY CONCEPTS IN THIS FILE (line.go):
  - LineItem is a value snapshot: barcode, name, quantity, and the unit
    price captured at the moment the line was created. Later price
    changes in the ledger never retroactively alter historical receipts.
  - No live Item reference is held; the line cannot be corrupted by
    ledger mutation.

SEE ALSO:
  - receipt.go: The immutable record built from lines
  - orchestrator.go: Builds and commits transactions
*/
package transaction

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/pos-engine/inventory"
)

// ErrNilItem is returned when creating a line without an item.
var ErrNilItem = errors.New("line item requires an item")

// ErrInvalidLineQuantity is returned when creating a line with a
// non-positive quantity.
var ErrInvalidLineQuantity = errors.New("line quantity must be positive")

// LineItem is one entry of a transaction: a value snapshot of the item and
// the unit price at the moment the line was created.
type LineItem struct {
	barcode   string
	name      string
	quantity  int
	unitPrice decimal.Decimal
}

// NewLineItem captures a transaction line from an item, freezing its
// current price.
func NewLineItem(item *inventory.Item, quantity int) (LineItem, error) {
	if item == nil {
		return LineItem{}, ErrNilItem
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidLineQuantity
	}
	return LineItem{
		barcode:   item.Barcode(),
		name:      item.Name(),
		quantity:  quantity,
		unitPrice: item.Price(),
	}, nil
}

// RestoreLineItem rebuilds a line from archived fields. Intended for Archive
// implementations; the data must originate from this package.
func RestoreLineItem(barcode, name string, quantity int, unitPrice decimal.Decimal) LineItem {
	return LineItem{barcode: barcode, name: name, quantity: quantity, unitPrice: unitPrice}
}

func (l LineItem) Barcode() string            { return l.barcode }
func (l LineItem) Name() string               { return l.name }
func (l LineItem) Quantity() int              { return l.quantity }
func (l LineItem) UnitPrice() decimal.Decimal { return l.unitPrice }

// Subtotal is quantity times the captured unit price.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}

func (l LineItem) String() string {
	return fmt.Sprintf("%d x %s @ $%s = $%s",
		l.quantity, l.name, l.unitPrice.StringFixed(2), l.Subtotal().StringFixed(2))
}
