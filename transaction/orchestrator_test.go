package transaction_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
	"github.com/warp/pos-engine/transaction"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testEngine struct {
	inventory *inventory.Service
	archive   *transaction.MemoryArchive
	orch      *transaction.Orchestrator
	manager   *employee.Employee
	cashier   *employee.Employee
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	log := zap.NewNop()
	ledger := inventory.NewStockLedger(inventory.DefaultLowStockThreshold, log)
	session := inventory.NewSessionRegistry(log)
	inv := inventory.NewService(ledger, session, log)
	archive := transaction.NewMemoryArchive()
	return &testEngine{
		inventory: inv,
		archive:   archive,
		orch:      transaction.NewOrchestrator(inv, archive, log),
		manager:   mustEmployee(t, "MGR001", "Alice Manager", employee.RoleManager),
		cashier:   mustEmployee(t, "CSH001", "Bob Cashier", employee.RoleCashier),
	}
}

func (e *testEngine) stock(t *testing.T, barcode, name, price string, qty int) *inventory.Item {
	t.Helper()
	item := mustItem(t, barcode, name, price, qty)
	require.True(t, e.inventory.AddItem(item))
	return item
}

func (e *testEngine) adHoc(t *testing.T, barcode, name, price string) *inventory.Item {
	t.Helper()
	item := mustItem(t, barcode, name, price, 1)
	e.inventory.AddTemporaryItem(item)
	return item
}

func (e *testEngine) quantityOf(t *testing.T, barcode string) int {
	t.Helper()
	item, ok := e.inventory.FindAny(barcode)
	require.True(t, ok)
	return item.Quantity()
}

func refund(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// =============================================================================
// SALE - HAPPY PATH
// =============================================================================

func TestProcessSale_DecrementsLedgerStock(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)
	juice := e.stock(t, "BC003", "Orange Juice", "2.50", 30)

	lines := []transaction.LineItem{
		mustLine(t, apple, 3),
		mustLine(t, juice, 2),
	}

	receipt, err := e.orch.ProcessSale(ctx, lines, e.cashier)
	require.NoError(t, err)

	assert.Equal(t, transaction.KindSale, receipt.Kind())
	assert.Equal(t, "6.50", receipt.Total().StringFixed(2))
	assert.Equal(t, 47, e.quantityOf(t, "BC001"))
	assert.Equal(t, 28, e.quantityOf(t, "BC003"))

	// Receipt is archived and findable.
	found, err := e.orch.FindReceipt(ctx, receipt.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, receipt.ID(), found.ID())
}

func TestProcessSale_AdHocLines_BilledNotStockTracked(t *testing.T) {
	// GIVEN: A sale mixing a ledger item and an ad-hoc session item
	// WHEN: Processing it
	// THEN: Only the ledger item's stock moves; both lines are billed

	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)
	snack := e.adHoc(t, "TMP01", "Mystery Snack", "1.25")

	lines := []transaction.LineItem{
		mustLine(t, apple, 2),
		mustLine(t, snack, 4),
	}

	receipt, err := e.orch.ProcessSale(context.Background(), lines, e.cashier)
	require.NoError(t, err)

	assert.Equal(t, 48, e.quantityOf(t, "BC001"))
	assert.Equal(t, 1, e.quantityOf(t, "TMP01"), "ad-hoc quantity is cosmetic and untouched")
	assert.Len(t, receipt.Lines(), 2, "receipt bills the original, unpartitioned line list")
	assert.Equal(t, "6.00", receipt.Total().StringFixed(2))
}

// =============================================================================
// SALE - VALIDATION
// =============================================================================

func TestProcessSale_Preconditions(t *testing.T) {
	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)
	line := mustLine(t, apple, 1)

	_, err := e.orch.ProcessSale(context.Background(), nil, e.cashier)
	assert.ErrorIs(t, err, transaction.ErrEmptyTransaction)

	_, err = e.orch.ProcessSale(context.Background(), []transaction.LineItem{line}, nil)
	assert.ErrorIs(t, err, transaction.ErrMissingActor)
}

func TestProcessSale_InsufficientStock_NoPartialCommit(t *testing.T) {
	// GIVEN: Two ledger items, the second short on stock
	// WHEN: Processing a sale covering both
	// THEN: The sale fails before ANY decrement happens

	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)
	bread := e.stock(t, "BC004", "Bread Loaf", "3.00", 5)

	lines := []transaction.LineItem{
		mustLine(t, apple, 10),
		mustLine(t, bread, 6),
	}

	_, err := e.orch.ProcessSale(context.Background(), lines, e.cashier)

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "BC004", stockErr.Barcode)
	assert.Equal(t, 6, stockErr.Required)
	assert.Equal(t, 5, stockErr.Available)

	assert.Equal(t, 50, e.quantityOf(t, "BC001"), "validation must complete before any mutation")
	assert.Equal(t, 5, e.quantityOf(t, "BC004"))
	assert.Equal(t, 0, e.archive.Len(), "failed sale must not produce a receipt")
}

func TestProcessSale_ExampleScenario_BC004(t *testing.T) {
	// Ledger has BC004 with qty 8 (threshold 10). Selling 3 succeeds and
	// leaves 5 with a low-stock alert; selling 6 more fails with
	// required 6 / available 5 and the quantity stays 5.

	e := newTestEngine(t)
	bread := e.stock(t, "BC004", "Bread Loaf", "3.00", 8)

	var alerts []inventory.StockAlert
	e.inventory.OnAlert(func(a inventory.StockAlert) { alerts = append(alerts, a) })

	_, err := e.orch.ProcessSale(context.Background(),
		[]transaction.LineItem{mustLine(t, bread, 3)}, e.cashier)
	require.NoError(t, err)
	assert.Equal(t, 5, e.quantityOf(t, "BC004"))
	require.Len(t, alerts, 1)
	assert.Equal(t, 5, alerts[0].Remaining)

	_, err = e.orch.ProcessSale(context.Background(),
		[]transaction.LineItem{mustLine(t, bread, 6)}, e.cashier)
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Required)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 5, e.quantityOf(t, "BC004"))
}

// =============================================================================
// RETURN - REFUND POLICY
// =============================================================================

func TestProcessReturn_Preconditions(t *testing.T) {
	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)
	line := mustLine(t, apple, 1)
	ctx := context.Background()

	_, err := e.orch.ProcessReturn(ctx, "ORIG1234", nil, e.cashier, nil)
	assert.ErrorIs(t, err, transaction.ErrEmptyTransaction)

	_, err = e.orch.ProcessReturn(ctx, "", []transaction.LineItem{line}, e.cashier, nil)
	assert.ErrorIs(t, err, transaction.ErrMissingOriginalID)

	_, err = e.orch.ProcessReturn(ctx, "ORIG1234", []transaction.LineItem{line}, nil, nil)
	assert.ErrorIs(t, err, transaction.ErrMissingActor)
}

func TestProcessReturn_DefaultRefund_IsCalculatedTotal(t *testing.T) {
	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, apple, 4)}, e.cashier, nil)
	require.NoError(t, err)

	assert.Equal(t, "-2.00", receipt.Total().StringFixed(2))
	assert.Equal(t, "ORIG1234", receipt.OriginalReceiptID())
}

func TestProcessReturn_ManagerCustomRefund_UsedVerbatim(t *testing.T) {
	// A manager returns items whose calculated subtotal is $12.00 with a
	// custom refund of $5.00: the receipt total is -5.00.

	e := newTestEngine(t)
	juice := e.stock(t, "BC003", "Orange Juice", "3.00", 30)

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, juice, 4)}, e.manager, refund("5.00"))
	require.NoError(t, err)

	assert.Equal(t, "-5.00", receipt.Total().StringFixed(2))
}

func TestProcessReturn_ManagerCustomRefund_NoUpperBound(t *testing.T) {
	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, apple, 1)}, e.manager, refund("100.00"))
	require.NoError(t, err)

	assert.Equal(t, "-100.00", receipt.Total().StringFixed(2))
}

func TestProcessReturn_NegativeCustomRefund_Rejected(t *testing.T) {
	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)
	line := mustLine(t, apple, 1)
	ctx := context.Background()

	_, err := e.orch.ProcessReturn(ctx, "ORIG1234", []transaction.LineItem{line}, e.manager, refund("-1.00"))
	assert.ErrorIs(t, err, transaction.ErrNegativeRefund)

	_, err = e.orch.ProcessReturn(ctx, "ORIG1234", []transaction.LineItem{line}, e.cashier, refund("-1.00"))
	assert.ErrorIs(t, err, transaction.ErrNegativeRefund)
}

func TestProcessReturn_CashierOverRefund_Rejected(t *testing.T) {
	// A cashier attempts a $15.00 refund on a calculated subtotal of
	// $10.00: rejected with the exact calculated/attempted amounts.

	e := newTestEngine(t)
	bread := e.stock(t, "BC004", "Bread Loaf", "2.50", 20)

	_, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, bread, 4)}, e.cashier, refund("15.00"))

	var refundErr *transaction.RefundExceedsValueError
	require.ErrorAs(t, err, &refundErr)
	assert.Equal(t, "10.00", refundErr.Calculated.StringFixed(2))
	assert.Equal(t, "15.00", refundErr.Attempted.StringFixed(2))
	assert.Equal(t, 0, e.archive.Len())
}

func TestProcessReturn_CashierUnderRefund_Accepted(t *testing.T) {
	e := newTestEngine(t)
	bread := e.stock(t, "BC004", "Bread Loaf", "2.50", 20)

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, bread, 4)}, e.cashier, refund("8.00"))
	require.NoError(t, err)

	assert.Equal(t, "-8.00", receipt.Total().StringFixed(2))
}

// =============================================================================
// RETURN - STOCK EFFECT
// =============================================================================

func TestProcessReturn_ManagerRestocksLedgerItems(t *testing.T) {
	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)

	_, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, apple, 4)}, e.manager, nil)
	require.NoError(t, err)

	assert.Equal(t, 54, e.quantityOf(t, "BC001"))
}

func TestProcessReturn_CashierRestockDenied_ReturnStillSucceeds(t *testing.T) {
	// GIVEN: A cashier without restock capability
	// WHEN: Processing a return of a ledger item
	// THEN: The refund succeeds but the item does not re-enter stock

	e := newTestEngine(t)
	apple := e.stock(t, "BC001", "Apple", "0.50", 50)

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, apple, 4)}, e.cashier, nil)
	require.NoError(t, err)

	assert.Equal(t, "-2.00", receipt.Total().StringFixed(2))
	assert.Equal(t, 50, e.quantityOf(t, "BC001"), "denied restock must leave stock unchanged")
}

func TestProcessReturn_AdHocLines_NeverRestocked(t *testing.T) {
	e := newTestEngine(t)
	snack := e.adHoc(t, "TMP01", "Mystery Snack", "1.25")

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{mustLine(t, snack, 2)}, e.manager, nil)
	require.NoError(t, err)

	assert.Equal(t, "-2.50", receipt.Total().StringFixed(2))
	assert.Equal(t, 1, e.quantityOf(t, "TMP01"))
}

// =============================================================================
// RECEIPT LOOKUP
// =============================================================================

func TestFindReceipt_MissingID_ReturnsNil(t *testing.T) {
	e := newTestEngine(t)

	receipt, err := e.orch.FindReceipt(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

// =============================================================================
// PRICE CHANGES BETWEEN TRANSACTIONS
// =============================================================================

func TestRefund_UsesPriceCapturedOnLine(t *testing.T) {
	// GIVEN: A return line captured while the price was $2.00
	// WHEN: The ledger price rises before the return commits
	// THEN: The refund still uses the captured price

	e := newTestEngine(t)
	juice := e.stock(t, "BC003", "Orange Juice", "2.00", 30)
	line := mustLine(t, juice, 3)

	juice.SetPrice(inventory.MustParsePrice("9.99"))

	receipt, err := e.orch.ProcessReturn(context.Background(), "ORIG1234",
		[]transaction.LineItem{line}, e.manager, nil)
	require.NoError(t, err)

	assert.Equal(t, "-6.00", receipt.Total().StringFixed(2))
}
