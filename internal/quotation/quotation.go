// Package quotation composes price quotations from the current catalogue.
package quotation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/inventory"
	"github.com/shopdesk/shopdesk/internal/shared"
)

// Catalog is the read side of the inventory store.
type Catalog interface {
	GetByName(name string) []inventory.Item
}

// Line is one quoted catalogue row.
type Line struct {
	ItemName  string          `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Quotation is an ephemeral document; it is never stored.
type Quotation struct {
	Number      string          `json:"number"`
	Customer    string          `json:"customer"`
	GeneratedAt time.Time       `json:"generated_at"`
	Lines       []Line          `json:"lines"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// Composer builds quotations against a catalogue.
type Composer struct {
	catalog Catalog
	now     func() time.Time
}

// NewComposer constructs a Composer.
func NewComposer(catalog Catalog) *Composer {
	return &Composer{catalog: catalog, now: time.Now}
}

// Build quotes every catalogue row matching the requested names. Blank names
// are dropped and repeats keep their first position. Names with no matching
// row contribute no lines.
func (c *Composer) Build(customer string, itemNames []string) (Quotation, error) {
	if strings.TrimSpace(customer) == "" {
		return Quotation{}, shared.Invalid("customer", "is required")
	}
	names := normalise(itemNames)
	if len(names) == 0 {
		return Quotation{}, shared.Invalid("items", "at least one item is required")
	}

	now := c.now()
	q := Quotation{
		Number:      number(now),
		Customer:    customer,
		GeneratedAt: now,
		Lines:       []Line{},
		GrandTotal:  decimal.Zero,
	}
	for _, name := range names {
		for _, item := range c.catalog.GetByName(name) {
			line := Line{
				ItemName:  item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
				LineTotal: item.Value(),
			}
			q.Lines = append(q.Lines, line)
			q.GrandTotal = q.GrandTotal.Add(line.LineTotal)
		}
	}
	return q, nil
}

func normalise(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// number formats QT-{YYMM}-{8 hex}.
func number(at time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("QT-%s-%s", at.Format("0601"), id[:8])
}
