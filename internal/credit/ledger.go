// Package credit keeps the shop's credit book: amounts customers owe.
package credit

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/shared"
)

// Entry is money owed by one customer, due on a calendar date.
type Entry struct {
	Customer  string          `json:"customer"`
	AmountDue decimal.Decimal `json:"amount_due"`
	DueDate   time.Time       `json:"due_date"`
}

// CustomerBalance is the summed amount owed by one customer.
type CustomerBalance struct {
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
}

// DuePoint is the amount falling due on one date.
type DuePoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Ledger is an append-only credit book. Entries for the same customer are
// never merged.
type Ledger struct {
	entries []Entry
}

// NewLedger builds an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add validates and appends an entry.
func (l *Ledger) Add(customer string, amount decimal.Decimal, dueDate time.Time) (Entry, error) {
	if strings.TrimSpace(customer) == "" {
		return Entry{}, shared.Invalid("customer", "is required")
	}
	if !amount.IsPositive() {
		return Entry{}, shared.Invalid("amount_due", "must be greater than zero")
	}
	if dueDate.IsZero() {
		return Entry{}, shared.Invalid("due_date", "is required")
	}
	entry := Entry{Customer: customer, AmountDue: amount, DueDate: shared.Date(dueDate)}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// List returns the entries in insertion order.
func (l *Ledger) List() []Entry {
	return slices.Clone(l.entries)
}

// Len reports the entry count.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// TotalOutstanding sums every amount due.
func (l *Ledger) TotalOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.AmountDue)
	}
	return total
}

// OutstandingByCustomer sums per customer, largest first; ties keep the
// order customers first appeared in.
func (l *Ledger) OutstandingByCustomer() []CustomerBalance {
	index := map[string]int{}
	out := []CustomerBalance{}
	for _, e := range l.entries {
		i, ok := index[e.Customer]
		if !ok {
			i = len(out)
			index[e.Customer] = i
			out = append(out, CustomerBalance{Customer: e.Customer, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(e.AmountDue)
	}
	slices.SortStableFunc(out, func(a, b CustomerBalance) int {
		return b.Amount.Cmp(a.Amount)
	})
	return out
}

// DueOverTime groups amounts by due date, ascending.
func (l *Ledger) DueOverTime() []DuePoint {
	byDate := map[time.Time]decimal.Decimal{}
	for _, e := range l.entries {
		byDate[e.DueDate] = byDate[e.DueDate].Add(e.AmountDue)
	}
	out := make([]DuePoint, 0, len(byDate))
	for date, amount := range byDate {
		out = append(out, DuePoint{Date: date, Amount: amount})
	}
	slices.SortFunc(out, func(a, b DuePoint) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})
	return out
}
