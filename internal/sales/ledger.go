// Package sales records sale transactions and keeps inventory in step with
// them.
package sales

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/inventory"
	"github.com/shopdesk/shopdesk/internal/shared"
)

// Stock is the slice of the inventory store a sale needs.
type Stock interface {
	Available(name string) (int, bool)
	Decrement(name string, qty int) (inventory.Item, bool)
}

// LedgerConfig groups optional settings.
type LedgerConfig struct {
	Policy StockPolicy
	Logger *slog.Logger
}

// Ledger is an append-only list of sales bound to one inventory.
type Ledger struct {
	records []Record
	stock   Stock
	policy  StockPolicy
	logger  *slog.Logger
	newID   func() uuid.UUID
}

// NewLedger builds a Ledger that depletes stock.
func NewLedger(stock Stock, cfg LedgerConfig) *Ledger {
	policy := cfg.Policy
	if policy == "" {
		policy = StockPolicyAllow
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{stock: stock, policy: policy, logger: logger, newID: uuid.New}
}

// Policy reports the active stock policy.
func (l *Ledger) Policy() StockPolicy {
	return l.policy
}

// Record validates input, applies the stock policy and appends the sale.
// Under the reject policy a failed check leaves both ledger and stock
// untouched.
func (l *Ledger) Record(ctx context.Context, input RecordInput) (Record, error) {
	if err := input.Validate(); err != nil {
		return Record{}, err
	}
	if l.policy == StockPolicyReject {
		available, ok := l.stock.Available(input.ItemName)
		if !ok {
			return Record{}, shared.Invalid("item", "is not in inventory")
		}
		if available < input.Quantity {
			return Record{}, shared.Invalid("quantity", "exceeds available stock")
		}
	}

	record := Record{
		ID:        l.newID(),
		Customer:  input.Customer,
		ItemName:  input.ItemName,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		Date:      shared.Date(input.Date),
	}
	l.records = append(l.records, record)

	item, ok := l.stock.Decrement(input.ItemName, input.Quantity)
	switch {
	case !ok:
		l.logger.WarnContext(ctx, "sale recorded for item missing from inventory", slog.String("item", input.ItemName))
	case item.Quantity < 0:
		l.logger.WarnContext(ctx, "stock went negative", slog.String("item", item.Name), slog.Int("quantity", item.Quantity))
	}
	return record, nil
}

// List returns the sales in insertion order.
func (l *Ledger) List() []Record {
	return slices.Clone(l.records)
}

// Len reports the record count.
func (l *Ledger) Len() int {
	return len(l.records)
}

// TotalRevenue sums quantity × unit price over every sale.
func (l *Ledger) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.records {
		total = total.Add(r.Total())
	}
	return total
}

// TopItemsByQuantity ranks items by units sold. limit <= 0 returns all.
func (l *Ledger) TopItemsByQuantity(limit int) []QuantityBucket {
	return l.top(limit, func(r Record) string { return r.ItemName })
}

// TopCustomersByQuantity ranks customers by units bought. limit <= 0
// returns all.
func (l *Ledger) TopCustomersByQuantity(limit int) []QuantityBucket {
	return l.top(limit, func(r Record) string { return r.Customer })
}

func (l *Ledger) top(limit int, key func(Record) string) []QuantityBucket {
	index := map[string]int{}
	out := []QuantityBucket{}
	for _, r := range l.records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, QuantityBucket{Key: k})
		}
		out[i].Quantity += r.Quantity
	}
	slices.SortStableFunc(out, func(a, b QuantityBucket) int {
		return cmp.Compare(b.Quantity, a.Quantity)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// QuantityOverTime sums units sold per date, ascending.
func (l *Ledger) QuantityOverTime() []QuantityPoint {
	byDate := map[time.Time]int{}
	for _, r := range l.records {
		byDate[r.Date] += r.Quantity
	}
	out := make([]QuantityPoint, 0, len(byDate))
	for date, qty := range byDate {
		out = append(out, QuantityPoint{Date: date, Quantity: qty})
	}
	slices.SortFunc(out, func(a, b QuantityPoint) int { return a.Date.Compare(b.Date) })
	return out
}

// RevenueOverTime sums revenue per date, ascending.
func (l *Ledger) RevenueOverTime() []RevenuePoint {
	byDate := map[time.Time]decimal.Decimal{}
	for _, r := range l.records {
		byDate[r.Date] = byDate[r.Date].Add(r.Total())
	}
	out := make([]RevenuePoint, 0, len(byDate))
	for date, amount := range byDate {
		out = append(out, RevenuePoint{Date: date, Amount: amount})
	}
	slices.SortFunc(out, func(a, b RevenuePoint) int { return a.Date.Compare(b.Date) })
	return out
}
