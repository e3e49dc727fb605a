/*
orchestrator.go - Sale and return workflow execution

PURPOSE:
  Executes the two transaction workflows against the inventory facade:

  ProcessSale:
    1. Partition lines into ledger-backed and ad-hoc
    2. Validate stock for every ledger-backed line BEFORE mutating
       anything (validate-then-commit, so an abort never leaves partial
       decrements behind)
    3. Decrease stock for validated lines
    4. Build a SALE receipt over the original, unpartitioned line list
       (ad-hoc items are billed but not stock-tracked)
    5. Archive and return the receipt

  ProcessReturn:
    1. Evaluate the refund policy once:
       - privileged actor + custom amount: used verbatim (no upper
         bound), negative rejected
       - otherwise: custom amount above the calculated total rejected,
         at or below it accepted, absent means calculated total
    2. Attempt a restock for every ledger-backed line; a restock denial
       is logged and the return proceeds, so an item can be financially
       refunded without re-entering sellable stock
    3. Build, archive, and return a RETURN receipt referencing the
       original

KNOWN LIMITATION:
  If a validated decrease fails mid-commit (possible only outside the
  single-actor assumption), the sale aborts with ErrStockMutationFailed
  and earlier decrements in that sale are NOT rolled back.

SEE ALSO:
  - inventory/service.go: Sell/Restock semantics
  - receipt.go, archive.go: Receipt construction and storage
*/
package transaction

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
)

// Orchestrator executes sale and return workflows. It is the only component
// that creates receipts, and it never retries a failed transaction.
type Orchestrator struct {
	inventory *inventory.Service
	archive   Archive
	log       *zap.Logger
}

func NewOrchestrator(inv *inventory.Service, archive Archive, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{inventory: inv, archive: archive, log: log}
}

// =============================================================================
// SALE
// =============================================================================

// ProcessSale validates and commits a sale, returning the archived receipt.
func (o *Orchestrator) ProcessSale(ctx context.Context, lines []LineItem, emp *employee.Employee) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTransaction
	}
	if emp == nil {
		return nil, ErrMissingActor
	}

	// Phase 1: validate stock for ledger-backed lines. No mutation happens
	// until every line has passed.
	var ledgerLines []LineItem
	for _, line := range lines {
		if !o.inventory.IsLedgerItem(line.Barcode()) {
			o.log.Debug("line not in ledger, billing as session item",
				zap.String("barcode", line.Barcode()))
			continue
		}
		item, _ := o.inventory.FindAny(line.Barcode())
		if item.Quantity() < line.Quantity() {
			return nil, &inventory.InsufficientStockError{
				Barcode:   item.Barcode(),
				Name:      item.Name(),
				Required:  line.Quantity(),
				Available: item.Quantity(),
			}
		}
		ledgerLines = append(ledgerLines, line)
	}

	// Phase 2: commit the validated decrements. A failure here means the
	// stock changed between validation and commit; earlier decrements in
	// this loop are not rolled back.
	for _, line := range ledgerLines {
		if err := o.inventory.Sell(line.Barcode(), line.Quantity()); err != nil {
			o.log.Error("stock decrease failed after validation",
				zap.String("barcode", line.Barcode()),
				zap.Error(err))
			return nil, &StockMutationError{Barcode: line.Barcode()}
		}
	}

	// The receipt bills the original line list: ad-hoc items are sold but
	// never stock-tracked.
	receipt, err := NewSaleReceipt(lines, emp)
	if err != nil {
		return nil, err
	}
	if err := o.archive.Append(ctx, receipt); err != nil {
		return nil, err
	}

	o.log.Info("sale completed",
		zap.String("receipt_id", receipt.ID()),
		zap.String("total", receipt.Total().StringFixed(2)),
		zap.String("employee", emp.ID))
	return receipt, nil
}

// =============================================================================
// RETURN
// =============================================================================

// ProcessReturn commits a return. customRefund, when non-nil, is subject to
// the refund policy of the acting employee's role.
func (o *Orchestrator) ProcessReturn(ctx context.Context, originalReceiptID string, lines []LineItem, emp *employee.Employee, customRefund *decimal.Decimal) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTransaction
	}
	if strings.TrimSpace(originalReceiptID) == "" {
		return nil, ErrMissingOriginalID
	}
	if emp == nil {
		return nil, ErrMissingActor
	}

	refund, err := o.resolveRefund(lines, emp, customRefund)
	if err != nil {
		return nil, err
	}

	// Restock ledger-backed lines. Denials are recorded, never fatal: the
	// refund still happens even when policy keeps the item out of sellable
	// stock.
	for _, line := range lines {
		if !o.inventory.IsLedgerItem(line.Barcode()) {
			continue
		}
		if err := o.inventory.Restock(line.Barcode(), line.Quantity(), emp); err != nil {
			o.log.Warn("could not restock item during return",
				zap.String("barcode", line.Barcode()),
				zap.String("employee", emp.ID),
				zap.Error(err))
		}
	}

	receipt, err := NewReturnReceipt(lines, emp, originalReceiptID, refund)
	if err != nil {
		return nil, err
	}
	if err := o.archive.Append(ctx, receipt); err != nil {
		return nil, err
	}

	o.log.Info("return completed",
		zap.String("receipt_id", receipt.ID()),
		zap.String("original_receipt_id", originalReceiptID),
		zap.String("refund", refund.StringFixed(2)),
		zap.String("employee", emp.ID))
	return receipt, nil
}

// resolveRefund evaluates the refund policy exactly once.
func (o *Orchestrator) resolveRefund(lines []LineItem, emp *employee.Employee, customRefund *decimal.Decimal) (decimal.Decimal, error) {
	calculated := decimal.Zero
	for _, line := range lines {
		calculated = calculated.Add(line.Subtotal())
	}

	if customRefund == nil {
		return calculated, nil
	}
	if customRefund.IsNegative() {
		return decimal.Zero, ErrNegativeRefund
	}
	if emp.Role.CanGrantFlexibleRefund() {
		// No upper bound for a privileged actor.
		return *customRefund, nil
	}
	if customRefund.GreaterThan(calculated) {
		return decimal.Zero, &RefundExceedsValueError{Calculated: calculated, Attempted: *customRefund}
	}
	return *customRefund, nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// FindReceipt returns the archived receipt with the given id, or (nil, nil)
// when absent. Pure lookup.
func (o *Orchestrator) FindReceipt(ctx context.Context, id string) (*Receipt, error) {
	return o.archive.Find(ctx, id)
}
