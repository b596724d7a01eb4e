package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/shared"
)

// StockPolicy decides what happens when a sale exceeds the catalogue.
type StockPolicy string

const (
	// StockPolicyAllow records every valid sale. Missing items are not
	// decremented and stock may go negative.
	StockPolicyAllow StockPolicy = "allow"
	// StockPolicyReject refuses sales for unknown items or above the
	// available quantity.
	StockPolicyReject StockPolicy = "reject"
)

// ParseStockPolicy maps a config value to a policy. Empty selects allow.
func ParseStockPolicy(value string) (StockPolicy, error) {
	switch StockPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", StockPolicyAllow:
		return StockPolicyAllow, nil
	case StockPolicyReject:
		return StockPolicyReject, nil
	}
	return "", shared.Invalid("stock_policy", "must be allow or reject")
}

// Record is one sale transaction.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	Customer  string          `json:"customer"`
	ItemName  string          `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Date      time.Time       `json:"date"`
}

// Total returns quantity × unit price.
func (r Record) Total() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// RecordInput captures a sale to be recorded. UnitPrice is entered by the
// operator and may differ from the catalogue price.
type RecordInput struct {
	Customer  string
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Date      time.Time
}

// Validate checks required fields and numeric signs.
func (in RecordInput) Validate() error {
	if strings.TrimSpace(in.Customer) == "" {
		return shared.Invalid("customer", "is required")
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return shared.Invalid("item", "is required")
	}
	if in.Quantity <= 0 {
		return shared.Invalid("quantity", "must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return shared.Invalid("unit_price", "must be non-negative")
	}
	if in.Date.IsZero() {
		return shared.Invalid("date", "is required")
	}
	return nil
}

// QuantityBucket is a summed quantity for one key (item or customer).
type QuantityBucket struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
}

// QuantityPoint is the quantity sold on one date.
type QuantityPoint struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// RevenuePoint is the revenue booked on one date.
type RevenuePoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}
