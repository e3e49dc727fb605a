package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
	"github.com/warp/pos-engine/store/sqlite"
	"github.com/warp/pos-engine/transaction"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testLines(t *testing.T) []transaction.LineItem {
	t.Helper()
	apple, err := inventory.NewItem("BC001", "Apple", inventory.MustParsePrice("0.50"), 50)
	require.NoError(t, err)
	juice, err := inventory.NewItem("BC003", "Orange Juice", inventory.MustParsePrice("2.50"), 30)
	require.NoError(t, err)

	appleLine, err := transaction.NewLineItem(apple, 3)
	require.NoError(t, err)
	juiceLine, err := transaction.NewLineItem(juice, 2)
	require.NoError(t, err)
	return []transaction.LineItem{appleLine, juiceLine}
}

// =============================================================================
// ROUND-TRIP
// =============================================================================

func TestStore_SaleReceipt_RoundTrip(t *testing.T) {
	// GIVEN: A journaled sale receipt
	// WHEN: Loading it back by id
	// THEN: Every captured field survives, including line order and prices

	store := newTestStore(t)
	ctx := context.Background()

	cashier, err := employee.New("CSH001", "Bob Cashier", employee.RoleCashier)
	require.NoError(t, err)
	receipt, err := transaction.NewSaleReceipt(testLines(t), cashier)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, receipt))

	loaded, err := store.Find(ctx, receipt.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, receipt.ID(), loaded.ID())
	assert.Equal(t, transaction.KindSale, loaded.Kind())
	assert.True(t, receipt.Total().Equal(loaded.Total()))
	assert.Equal(t, "CSH001", loaded.ProcessedBy().ID)
	assert.Equal(t, "Bob Cashier", loaded.ProcessedBy().Name)
	assert.Equal(t, employee.RoleCashier, loaded.ProcessedBy().Role)
	assert.Empty(t, loaded.OriginalReceiptID())
	assert.True(t, receipt.CreatedAt().Equal(loaded.CreatedAt()))

	lines := loaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "BC001", lines[0].Barcode())
	assert.Equal(t, "Apple", lines[0].Name())
	assert.Equal(t, 3, lines[0].Quantity())
	assert.Equal(t, "0.50", lines[0].UnitPrice().StringFixed(2))
	assert.Equal(t, "BC003", lines[1].Barcode())
	assert.Equal(t, 2, lines[1].Quantity())
}

func TestStore_ReturnReceipt_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	manager, err := employee.New("MGR001", "Alice Manager", employee.RoleManager)
	require.NoError(t, err)
	receipt, err := transaction.NewReturnReceipt(testLines(t), manager, "AB12CD34", decimal.NewFromFloat(5))
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, receipt))

	loaded, err := store.Find(ctx, receipt.ID())
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, transaction.KindReturn, loaded.Kind())
	assert.Equal(t, "-5.00", loaded.Total().StringFixed(2))
	assert.Equal(t, "AB12CD34", loaded.OriginalReceiptID())
	assert.Equal(t, employee.RoleManager, loaded.ProcessedBy().Role)
}

// =============================================================================
// APPEND-ONLY SEMANTICS
// =============================================================================

func TestStore_Append_DuplicateID_Rejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cashier, err := employee.New("CSH001", "Bob Cashier", employee.RoleCashier)
	require.NoError(t, err)
	receipt, err := transaction.NewSaleReceipt(testLines(t), cashier)
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, receipt))
	assert.ErrorIs(t, store.Append(ctx, receipt), transaction.ErrDuplicateReceiptID)
}

func TestStore_Find_Missing_ReturnsNil(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Find(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
