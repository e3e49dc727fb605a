/*
Package inventory implements the stock side of the point-of-sale engine.

PURPOSE:
  Tracks stock-keeping records (Item), the registered stock ledger with
  atomic increase/decrease operations (StockLedger), the ephemeral store
  for ad-hoc session items (SessionRegistry), and the facade that unifies
  them behind one lookup with permission and low-stock policy applied
  (Service).

KEY CONCEPTS IN THIS FILE (item.go):
  - Item: barcode identity, display name, unit price, quantity in stock
  - Prices use decimal.Decimal; there is no float money anywhere
  - Quantity is only mutated through ledger operations; the unexported
    stock methods keep that ownership inside this package

INVARIANTS:
  1. Barcode is unique, immutable, non-empty
  2. Price is never negative; SetPrice ignores negative values
  3. Quantity is never negative; decrease fails rather than underflowing

SEE ALSO:
  - ledger.go: Owns Item mutation for registered items
  - session.go: Ad-hoc items with cosmetic quantities
*/
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyBarcode is returned when constructing an item without a barcode.
	ErrEmptyBarcode = errors.New("barcode cannot be empty")

	// ErrEmptyItemName is returned when constructing an item without a name.
	ErrEmptyItemName = errors.New("item name cannot be empty")

	// ErrNegativePrice is returned when constructing an item with a negative price.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativeQuantity is returned when constructing an item with negative stock.
	ErrNegativeQuantity = errors.New("initial quantity cannot be negative")
)

// MustParsePrice parses a decimal price string, returning zero on error.
// Convenience for seed data and tests.
func MustParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Item is a stock-keeping record. The barcode is immutable; name and price
// may change over time, which is why transaction lines capture the price at
// the moment they are created.
type Item struct {
	barcode  string
	name     string
	price    decimal.Decimal
	quantity int
}

// NewItem creates a validated item.
func NewItem(barcode, name string, price decimal.Decimal, quantity int) (*Item, error) {
	if strings.TrimSpace(barcode) == "" {
		return nil, ErrEmptyBarcode
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyItemName
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	return &Item{barcode: barcode, name: name, price: price, quantity: quantity}, nil
}

func (i *Item) Barcode() string        { return i.barcode }
func (i *Item) Name() string           { return i.name }
func (i *Item) Price() decimal.Decimal { return i.price }
func (i *Item) Quantity() int          { return i.quantity }

// SetName updates the display name. Empty names are ignored.
func (i *Item) SetName(name string) {
	if strings.TrimSpace(name) != "" {
		i.name = name
	}
}

// SetPrice updates the unit price. Negative prices are ignored.
func (i *Item) SetPrice(price decimal.Decimal) {
	if !price.IsNegative() {
		i.price = price
	}
}

// decrease subtracts stock as one check-and-update step. Returns false on
// invalid quantity or underflow; the quantity is unchanged on failure.
// Only the ledger calls this, under its lock.
func (i *Item) decrease(qty int) bool {
	if qty <= 0 || i.quantity < qty {
		return false
	}
	i.quantity -= qty
	return true
}

// increase adds stock. Returns false on invalid quantity.
// Only the ledger calls this, under its lock.
func (i *Item) increase(qty int) bool {
	if qty <= 0 {
		return false
	}
	i.quantity += qty
	return true
}

func (i *Item) String() string {
	return fmt.Sprintf("%q (%s) - $%s [%d in stock]",
		i.name, i.barcode, i.price.StringFixed(2), i.quantity)
}
