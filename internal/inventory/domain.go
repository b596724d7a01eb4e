package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/shared"
)

// Category enumerates the catalogue sections the shop stocks.
type Category string

const (
	// CategoryStationery covers pens, pencils, paper.
	CategoryStationery Category = "Stationery"
	// CategoryOfficeSupplies covers staplers, files, desk items.
	CategoryOfficeSupplies Category = "Office Supplies"
	// CategoryArtSupplies covers paints, brushes, canvases.
	CategoryArtSupplies Category = "Art Supplies"
)

// AllCategories is the filter sentinel that disables category filtering.
const AllCategories = "All Categories"

// Categories lists the closed enumeration in display order.
var Categories = []Category{CategoryStationery, CategoryOfficeSupplies, CategoryArtSupplies}

// ParseCategory matches value against the enumeration, ignoring case and
// surrounding blanks.
func ParseCategory(value string) (Category, bool) {
	value = strings.TrimSpace(value)
	for _, c := range Categories {
		if strings.EqualFold(string(c), value) {
			return c, true
		}
	}
	return "", false
}

// Default thresholds for stock flags.
const (
	DefaultLowStockThreshold = 10
)

// DefaultHighValueThreshold flags items priced above 1000.
var DefaultHighValueThreshold = decimal.NewFromInt(1000)

// Item is one catalogue row. Names are not unique: rows sharing a name
// coexist and are addressed together by name lookups.
type Item struct {
	Seq      int64           `json:"-"`
	Name     string          `json:"item"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Supplier string          `json:"supplier"`
	Category Category        `json:"category"`
}

// Value returns quantity × price.
func (i Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddInput describes a new catalogue row.
type AddInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Supplier string
	Category string
}

// Validate checks required fields and numeric signs.
func (in AddInput) Validate() (Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", shared.Invalid("item", "is required")
	}
	if strings.TrimSpace(in.Supplier) == "" {
		return "", shared.Invalid("supplier", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return "", shared.Invalid("category", "is required")
	}
	category, ok := ParseCategory(in.Category)
	if !ok {
		return "", shared.Invalid("category", "must be one of Stationery, Office Supplies, Art Supplies")
	}
	if in.Quantity < 0 {
		return "", shared.Invalid("quantity", "must be non-negative")
	}
	if in.Price.IsNegative() {
		return "", shared.Invalid("price", "must be non-negative")
	}
	return category, nil
}
