package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/inventory"
)

// Thresholds configures the stock flags counted by Summary.
type Thresholds struct {
	LowStock  int
	HighValue decimal.Decimal
}

// DefaultThresholds mirrors the inventory defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{LowStock: inventory.DefaultLowStockThreshold, HighValue: inventory.DefaultHighValueThreshold}
}

// Summary carries the headline figures shown on the dashboard cards.
type Summary struct {
	ItemCount        int             `json:"item_count"`
	TotalUnits       int             `json:"total_units"`
	StockValue       decimal.Decimal `json:"stock_value"`
	LowStockCount    int             `json:"low_stock_count"`
	HighValueCount   int             `json:"high_value_count"`
	CreditEntries    int             `json:"credit_entries"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	SalesCount       int             `json:"sales_count"`
	Revenue          decimal.Decimal `json:"revenue"`
}

// SummaryInput is the snapshot a Summary is computed from.
type SummaryInput struct {
	Items         []inventory.Item
	CreditEntries int
	Outstanding   decimal.Decimal
	SalesCount    int
	Revenue       decimal.Decimal
	Thresholds    Thresholds
}

// BuildSummary computes the headline figures.
func BuildSummary(in SummaryInput) Summary {
	units := 0
	for _, item := range in.Items {
		units += item.Quantity
	}
	return Summary{
		ItemCount:        len(in.Items),
		TotalUnits:       units,
		StockValue:       inventory.TotalValue(in.Items),
		LowStockCount:    len(inventory.LowStock(in.Items, in.Thresholds.LowStock)),
		HighValueCount:   len(inventory.HighValue(in.Items, in.Thresholds.HighValue)),
		CreditEntries:    in.CreditEntries,
		OutstandingTotal: in.Outstanding,
		SalesCount:       in.SalesCount,
		Revenue:          in.Revenue,
	}
}
