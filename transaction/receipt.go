/*
receipt.go - Immutable record of a completed transaction

PURPOSE:
  A Receipt is created exactly once per completed transaction and never
  changes afterwards. It owns value snapshots only: the line slice is
  copied at construction and again on read, and the processing employee
  is copied by value, so no later mutation of ledger items or staff
  records can alter history.

TOTALS:
  SALE:   total = sum of line subtotals (positive)
  RETURN: total = negative magnitude of the final refund amount

IDENTIFIERS:
  Receipt ids are the first 8 hex characters of a UUID, uppercased, to
  stay short enough to read back to a customer.

SEE ALSO:
  - line.go: The captured lines
  - archive.go: Append-only storage keyed by receipt id
*/
package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/pos-engine/employee"
)

// Kind distinguishes sales from returns.
type Kind string

const (
	KindSale   Kind = "SALE"
	KindReturn Kind = "RETURN"
)

// Receipt is the immutable record of a completed sale or return.
type Receipt struct {
	id                string
	createdAt         time.Time
	lines             []LineItem
	total             decimal.Decimal
	processedBy       employee.Employee
	kind              Kind
	originalReceiptID string
}

func newReceiptID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// NewSaleReceipt builds a SALE receipt over the given lines. The total is
// the sum of line subtotals.
func NewSaleReceipt(lines []LineItem, processedBy *employee.Employee) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTransaction
	}
	if processedBy == nil {
		return nil, ErrMissingActor
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}

	return &Receipt{
		id:          newReceiptID(),
		createdAt:   time.Now(),
		lines:       append([]LineItem(nil), lines...),
		total:       total,
		processedBy: *processedBy,
		kind:        KindSale,
	}, nil
}

// NewReturnReceipt builds a RETURN receipt. The total is stored as the
// negative magnitude of the refund, whatever sign the caller passes.
func NewReturnReceipt(lines []LineItem, processedBy *employee.Employee, originalReceiptID string, refund decimal.Decimal) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTransaction
	}
	if processedBy == nil {
		return nil, ErrMissingActor
	}
	if strings.TrimSpace(originalReceiptID) == "" {
		return nil, ErrMissingOriginalID
	}

	return &Receipt{
		id:                newReceiptID(),
		createdAt:         time.Now(),
		lines:             append([]LineItem(nil), lines...),
		total:             refund.Abs().Neg(),
		processedBy:       *processedBy,
		kind:              KindReturn,
		originalReceiptID: originalReceiptID,
	}, nil
}

// RestoreReceipt rebuilds a receipt from archived fields. Intended for
// Archive implementations; the data must originate from this package.
func RestoreReceipt(id string, createdAt time.Time, lines []LineItem, total decimal.Decimal,
	processedBy employee.Employee, kind Kind, originalReceiptID string) *Receipt {
	return &Receipt{
		id:                id,
		createdAt:         createdAt,
		lines:             append([]LineItem(nil), lines...),
		total:             total,
		processedBy:       processedBy,
		kind:              kind,
		originalReceiptID: originalReceiptID,
	}
}

func (r *Receipt) ID() string             { return r.id }
func (r *Receipt) CreatedAt() time.Time   { return r.createdAt }
func (r *Receipt) Total() decimal.Decimal { return r.total }
func (r *Receipt) Kind() Kind             { return r.kind }

// OriginalReceiptID is empty for sales.
func (r *Receipt) OriginalReceiptID() string { return r.originalReceiptID }

// ProcessedBy returns the employee snapshot captured at creation time.
func (r *Receipt) ProcessedBy() employee.Employee { return r.processedBy }

// Lines returns a copy of the captured lines.
func (r *Receipt) Lines() []LineItem {
	return append([]LineItem(nil), r.lines...)
}

// FormattedText renders the receipt from the captured values, independent
// of any later price change in the ledger.
func (r *Receipt) FormattedText() string {
	var sb strings.Builder

	sb.WriteString("========================================\n")
	sb.WriteString(fmt.Sprintf("          %s RECEIPT\n", r.kind))
	sb.WriteString("========================================\n")
	sb.WriteString(fmt.Sprintf("Receipt ID: %s\n", r.id))
	sb.WriteString(fmt.Sprintf("Timestamp:  %s\n", r.createdAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Processed By: %s (%s)\n", r.processedBy.Name, r.processedBy.ID))
	if r.kind == KindReturn && r.originalReceiptID != "" {
		sb.WriteString(fmt.Sprintf("Original Purchase ID: %s\n", r.originalReceiptID))
	}
	sb.WriteString("----------------------------------------\n")
	sb.WriteString("Items:\n")
	for _, line := range r.lines {
		sb.WriteString(fmt.Sprintf("- %s\n", line))
	}
	sb.WriteString("----------------------------------------\n")
	if r.kind == KindSale {
		sb.WriteString(fmt.Sprintf("TOTAL AMOUNT: $%s\n", r.total.StringFixed(2)))
	} else {
		sb.WriteString(fmt.Sprintf("TOTAL REFUND: $%s\n", r.total.Abs().StringFixed(2)))
	}
	sb.WriteString("========================================\n")

	return sb.String()
}

func (r *Receipt) String() string {
	return r.FormattedText()
}
