/*
seed.go - Sample catalog and staff for demos and development

PURPOSE:
  Populates the engine with a small known dataset so a fresh server is
  immediately usable from a terminal frontend: six catalog items
  (including one low-stock and one out-of-stock) and three staff
  members.

NOTE:
  Seeding is for development/demo environments. A production deployment
  would load its catalog and staff from the back office instead.

SEE ALSO:
  - cmd/server/main.go: Calls Seed at startup
*/
package api

import (
	"go.uber.org/zap"

	"github.com/warp/pos-engine/employee"
	"github.com/warp/pos-engine/inventory"
)

type seedItem struct {
	barcode  string
	name     string
	price    string
	quantity int
}

var seedItems = []seedItem{
	{"BC001", "Apple", "0.50", 50},
	{"BC002", "Banana", "0.30", 100},
	{"BC003", "Orange Juice", "2.50", 30},
	{"BC004", "Bread Loaf", "3.00", 8}, // low stock at the default threshold
	{"BC005", "Milk Carton", "1.80", 15},
	{"BC006", "Coffee Beans", "8.99", 0}, // out of stock
}

type seedEmployee struct {
	id   string
	name string
	role employee.Role
}

var seedEmployees = []seedEmployee{
	{"MGR001", "Alice Manager", employee.RoleManager},
	{"CSH001", "Bob Cashier", employee.RoleCashier},
	{"CSH002", "Charlie Cashier", employee.RoleCashier},
}

// Seed loads the sample catalog and staff, then logs the initial stock
// report the way a terminal would surface it at startup.
func Seed(inv *inventory.Service, dir *employee.Directory, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	for _, si := range seedItems {
		price := inventory.MustParsePrice(si.price)
		item, err := inventory.NewItem(si.barcode, si.name, price, si.quantity)
		if err != nil {
			return err
		}
		inv.AddItem(item)
	}

	for _, se := range seedEmployees {
		emp, err := employee.New(se.id, se.name, se.role)
		if err != nil {
			return err
		}
		dir.Add(emp)
	}

	for _, item := range inv.LowStockItems() {
		log.Warn("initial stock check: low stock",
			zap.String("barcode", item.Barcode()),
			zap.String("name", item.Name()),
			zap.Int("remaining", item.Quantity()),
			zap.Int("threshold", inv.LowStockThreshold()))
	}
	for _, item := range inv.OutOfStockItems() {
		log.Warn("initial stock check: out of stock",
			zap.String("barcode", item.Barcode()),
			zap.String("name", item.Name()))
	}
	return nil
}
