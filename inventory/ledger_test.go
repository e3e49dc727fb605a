package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/pos-engine/inventory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) *inventory.StockLedger {
	t.Helper()
	return inventory.NewStockLedger(inventory.DefaultLowStockThreshold, zap.NewNop())
}

func mustItem(t *testing.T, barcode, name, price string, qty int) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(barcode, name, inventory.MustParsePrice(price), qty)
	require.NoError(t, err)
	return item
}

// =============================================================================
// ITEM CONSTRUCTION
// =============================================================================

func TestNewItem_Validation(t *testing.T) {
	_, err := inventory.NewItem("", "Apple", inventory.MustParsePrice("0.50"), 5)
	assert.ErrorIs(t, err, inventory.ErrEmptyBarcode)

	_, err = inventory.NewItem("BC001", "  ", inventory.MustParsePrice("0.50"), 5)
	assert.ErrorIs(t, err, inventory.ErrEmptyItemName)

	_, err = inventory.NewItem("BC001", "Apple", inventory.MustParsePrice("-0.50"), 5)
	assert.ErrorIs(t, err, inventory.ErrNegativePrice)

	_, err = inventory.NewItem("BC001", "Apple", inventory.MustParsePrice("0.50"), -1)
	assert.ErrorIs(t, err, inventory.ErrNegativeQuantity)
}

func TestItem_SetPrice_IgnoresNegative(t *testing.T) {
	item := mustItem(t, "BC001", "Apple", "0.50", 5)

	item.SetPrice(inventory.MustParsePrice("-1.00"))
	assert.Equal(t, "0.50", item.Price().StringFixed(2), "negative price should be ignored")

	item.SetPrice(inventory.MustParsePrice("0.75"))
	assert.Equal(t, "0.75", item.Price().StringFixed(2))
}

// =============================================================================
// REGISTRATION
// =============================================================================

func TestLedger_Add_NoOverwrite(t *testing.T) {
	// GIVEN: A registered item
	// WHEN: Adding another item with the same barcode
	// THEN: The original survives untouched

	ledger := newTestLedger(t)
	original := mustItem(t, "BC001", "Apple", "0.50", 50)
	require.True(t, ledger.Add(original))

	impostor := mustItem(t, "BC001", "Golden Apple", "9.99", 1)
	assert.False(t, ledger.Add(impostor), "duplicate barcode should not be inserted")

	found, ok := ledger.Find("BC001")
	require.True(t, ok)
	assert.Equal(t, "Apple", found.Name())
	assert.Equal(t, 50, found.Quantity())
}

// =============================================================================
// ATOMIC STOCK OPERATIONS
// =============================================================================

func TestLedger_DecreaseThenIncrease_RestoresQuantity(t *testing.T) {
	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "BC001", "Apple", "0.50", 50)))

	require.NoError(t, ledger.Decrease("BC001", 7))
	require.NoError(t, ledger.Increase("BC001", 7))

	item, _ := ledger.Find("BC001")
	assert.Equal(t, 50, item.Quantity(), "decrease followed by increase should restore the original quantity")
}

func TestLedger_Decrease_Underflow_NoMutation(t *testing.T) {
	// GIVEN: 5 units in stock
	// WHEN: Decreasing by 6
	// THEN: The call fails and the quantity is unchanged

	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "BC001", "Apple", "0.50", 5)))

	err := ledger.Decrease("BC001", 6)
	assert.Error(t, err)

	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Required)
	assert.Equal(t, 5, stockErr.Available)

	item, _ := ledger.Find("BC001")
	assert.Equal(t, 5, item.Quantity())
}

func TestLedger_Decrease_InvalidInputs(t *testing.T) {
	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "BC001", "Apple", "0.50", 5)))

	assert.ErrorIs(t, ledger.Decrease("BC404", 1), inventory.ErrItemNotFound)
	assert.ErrorIs(t, ledger.Decrease("BC001", 0), inventory.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.Decrease("BC001", -3), inventory.ErrInvalidQuantity)
}

func TestLedger_Increase_InvalidInputs(t *testing.T) {
	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "BC001", "Apple", "0.50", 5)))

	assert.ErrorIs(t, ledger.Increase("BC404", 1), inventory.ErrItemNotFound)
	assert.ErrorIs(t, ledger.Increase("BC001", 0), inventory.ErrInvalidQuantity)
}

// =============================================================================
// STATUS AND REPORTS
// =============================================================================

func TestLedger_StatusOf(t *testing.T) {
	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "BC001", "Apple", "0.50", 50)))
	require.True(t, ledger.Add(mustItem(t, "BC004", "Bread Loaf", "3.00", 8)))
	require.True(t, ledger.Add(mustItem(t, "BC006", "Coffee Beans", "8.99", 0)))

	assert.Equal(t, inventory.StockIn, ledger.StatusOf("BC001").State)
	assert.Equal(t, inventory.StockLow, ledger.StatusOf("BC004").State)
	assert.Equal(t, 8, ledger.StatusOf("BC004").Quantity)
	assert.Equal(t, inventory.StockOut, ledger.StatusOf("BC006").State)
	assert.Equal(t, inventory.StockNotFound, ledger.StatusOf("BC404").State)
}

func TestLedger_StatusOf_ThresholdBoundary(t *testing.T) {
	// Exactly at the threshold is low; one above is in stock.
	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "AT", "At Threshold", "1.00", 10)))
	require.True(t, ledger.Add(mustItem(t, "ABOVE", "Above Threshold", "1.00", 11)))

	assert.Equal(t, inventory.StockLow, ledger.StatusOf("AT").State)
	assert.Equal(t, inventory.StockIn, ledger.StatusOf("ABOVE").State)
}

func TestLedger_StockReports(t *testing.T) {
	ledger := newTestLedger(t)
	require.True(t, ledger.Add(mustItem(t, "BC001", "Apple", "0.50", 50)))
	require.True(t, ledger.Add(mustItem(t, "BC004", "Bread Loaf", "3.00", 8)))
	require.True(t, ledger.Add(mustItem(t, "BC006", "Coffee Beans", "8.99", 0)))

	low := ledger.LowStockItems()
	require.Len(t, low, 1)
	assert.Equal(t, "BC004", low[0].Barcode())

	out := ledger.OutOfStockItems()
	require.Len(t, out, 1)
	assert.Equal(t, "BC006", out[0].Barcode())

	assert.Len(t, ledger.Items(), 3)
}

func TestStockStatus_Display(t *testing.T) {
	assert.Equal(t, "LOW STOCK (8)", inventory.StockStatus{State: inventory.StockLow, Quantity: 8}.String())
	assert.Equal(t, "OUT OF STOCK", inventory.StockStatus{State: inventory.StockOut}.String())
	assert.Equal(t, "ITEM NOT FOUND", inventory.StockStatus{State: inventory.StockNotFound}.String())
}
