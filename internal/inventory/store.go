package inventory

import (
	"github.com/shopdesk/shopdesk/internal/shared"
)

// StoreConfig groups optional settings.
type StoreConfig struct {
	// UniqueNames makes Add reject a name that already has a row.
	UniqueNames bool
}

// Store keeps catalogue rows in insertion order. It is not safe for
// concurrent use; the owning workspace serialises access.
type Store struct {
	items   []Item
	nextSeq int64
	unique  bool
}

// NewStore builds an empty Store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{unique: cfg.UniqueNames}
}

// Add validates input and appends a new row.
func (s *Store) Add(input AddInput) (Item, error) {
	category, err := input.Validate()
	if err != nil {
		return Item{}, err
	}
	if s.unique && s.indexOf(input.Name) >= 0 {
		return Item{}, shared.Invalid("item", "already exists")
	}
	s.nextSeq++
	item := Item{
		Seq:      s.nextSeq,
		Name:     input.Name,
		Quantity: input.Quantity,
		Price:    input.Price,
		Supplier: input.Supplier,
		Category: category,
	}
	s.items = append(s.items, item)
	return item, nil
}

// Remove deletes every row named exactly name and reports how many went.
func (s *Store) Remove(name string) int {
	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if item.Name == name {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = Item{}
	}
	s.items = kept
	return removed
}

// GetByName returns all rows named exactly name.
func (s *Store) GetByName(name string) []Item {
	out := []Item{}
	for _, item := range s.items {
		if item.Name == name {
			out = append(out, item)
		}
	}
	return out
}

// List returns a snapshot of every row in insertion order.
func (s *Store) List() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the row count.
func (s *Store) Len() int {
	return len(s.items)
}

// Available returns the quantity of the first row named name.
func (s *Store) Available(name string) (int, bool) {
	idx := s.indexOf(name)
	if idx < 0 {
		return 0, false
	}
	return s.items[idx].Quantity, true
}

// Decrement lowers the first row named name by qty. The result may go
// negative; callers enforce stock policy before calling.
func (s *Store) Decrement(name string, qty int) (Item, bool) {
	idx := s.indexOf(name)
	if idx < 0 {
		return Item{}, false
	}
	s.items[idx].Quantity -= qty
	return s.items[idx], true
}

// Categories returns the distinct categories present, in first-seen order.
func (s *Store) Categories() []Category {
	seen := make(map[Category]struct{}, len(Categories))
	out := []Category{}
	for _, item := range s.items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

func (s *Store) indexOf(name string) int {
	for i, item := range s.items {
		if item.Name == name {
			return i
		}
	}
	return -1
}
