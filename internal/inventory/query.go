package inventory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/shopdesk/shopdesk/internal/shared"
)

// SortField names a column the listing can be ordered by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByQuantity SortField = "quantity"
	SortByPrice    SortField = "price"
	SortBySupplier SortField = "supplier"
	SortByCategory SortField = "category"
)

// ParseSortField accepts the field names above and the CSV header labels
// ("Item", "Quantity", ...). Empty selects name.
func ParseSortField(value string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "name", "item":
		return SortByName, nil
	case "quantity":
		return SortByQuantity, nil
	case "price":
		return SortByPrice, nil
	case "supplier":
		return SortBySupplier, nil
	case "category":
		return SortByCategory, nil
	}
	return "", shared.Invalid("sort", "must be one of name, quantity, price, supplier, category")
}

// Filter keeps rows whose name contains term, compared under Unicode case
// folding, and whose category equals category. An empty term matches every
// row; AllCategories or an empty category disables the category check.
func Filter(items []Item, term, category string) []Item {
	folder := cases.Fold()
	needle := folder.String(term)
	category = strings.TrimSpace(category)
	anyCategory := category == "" || category == AllCategories

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if needle != "" {
			if item.Name == "" || !strings.Contains(folder.String(item.Name), needle) {
				continue
			}
		}
		if !anyCategory && string(item.Category) != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Sort returns a copy ordered ascending by field. Ties keep input order.
func Sort(items []Item, field SortField) []Item {
	out := slices.Clone(items)
	var compare func(a, b Item) int
	switch field {
	case SortByQuantity:
		compare = func(a, b Item) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case SortByPrice:
		compare = func(a, b Item) int { return a.Price.Cmp(b.Price) }
	case SortBySupplier:
		compare = func(a, b Item) int { return strings.Compare(a.Supplier, b.Supplier) }
	case SortByCategory:
		compare = func(a, b Item) int { return strings.Compare(string(a.Category), string(b.Category)) }
	default:
		compare = func(a, b Item) int { return strings.Compare(a.Name, b.Name) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

// Paginate returns one page of items; see shared.Paginate.
func Paginate(items []Item, pageSize, page int) ([]Item, error) {
	return shared.Paginate(items, pageSize, page)
}

// TotalValue sums quantity × price over items.
func TotalValue(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Value())
	}
	return total
}

// LowStock keeps rows with quantity strictly below threshold.
func LowStock(items []Item, threshold int) []Item {
	out := []Item{}
	for _, item := range items {
		if item.Quantity < threshold {
			out = append(out, item)
		}
	}
	return out
}

// HighValue keeps rows priced strictly above threshold.
func HighValue(items []Item, threshold decimal.Decimal) []Item {
	out := []Item{}
	for _, item := range items {
		if item.Price.GreaterThan(threshold) {
			out = append(out, item)
		}
	}
	return out
}
