package workspace

import (
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/inventory"
)

// demoCatalogue is loaded into fresh workspaces when demo seeding is on.
var demoCatalogue = []inventory.AddInput{
	{Name: "Pen", Quantity: 100, Price: decimal.NewFromFloat(5.0), Supplier: "SupA", Category: string(inventory.CategoryStationery)},
	{Name: "Notebook", Quantity: 40, Price: decimal.NewFromInt(30), Supplier: "SupA", Category: string(inventory.CategoryStationery)},
	{Name: "Stapler", Quantity: 8, Price: decimal.NewFromInt(120), Supplier: "SupB", Category: string(inventory.CategoryOfficeSupplies)},
	{Name: "Watercolour Set", Quantity: 3, Price: decimal.NewFromInt(1500), Supplier: "ArtCo", Category: string(inventory.CategoryArtSupplies)},
}

// Seed loads the demo catalogue. Rows rejected by the store policy are
// skipped.
func Seed(state *State) int {
	added := 0
	for _, in := range demoCatalogue {
		if _, err := state.Inventory.Add(in); err == nil {
			added++
		}
	}
	return added
}
