// Package analytics derives dashboard aggregates from catalogue, credit and
// sales snapshots.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/inventory"
)

// Bucket counts catalogue rows sharing a key.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ValueBucket sums stock value for a key.
type ValueBucket struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// CategoryDistribution counts rows per category in first-seen order.
func CategoryDistribution(items []inventory.Item) []Bucket {
	return countBy(items, func(item inventory.Item) string { return string(item.Category) })
}

// SupplierDistribution counts rows per supplier in first-seen order.
func SupplierDistribution(items []inventory.Item) []Bucket {
	return countBy(items, func(item inventory.Item) string { return item.Supplier })
}

// ValueByCategory sums quantity × price per category in first-seen order.
func ValueByCategory(items []inventory.Item) []ValueBucket {
	index := map[string]int{}
	out := []ValueBucket{}
	for _, item := range items {
		key := string(item.Category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, ValueBucket{Key: key, Value: decimal.Zero})
		}
		out[i].Value = out[i].Value.Add(item.Value())
	}
	return out
}

func countBy(items []inventory.Item, key func(inventory.Item) string) []Bucket {
	index := map[string]int{}
	out := []Bucket{}
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Bucket{Key: k})
		}
		out[i].Count++
	}
	return out
}
