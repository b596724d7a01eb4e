// Package workspace owns the per-session shop state. Each Workspace bundles
// one inventory, credit book and sales ledger and serialises access to them.
package workspace

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/credit"
	"github.com/shopdesk/shopdesk/internal/inventory"
	"github.com/shopdesk/shopdesk/internal/quotation"
	"github.com/shopdesk/shopdesk/internal/sales"
)

// Config carries the policy knobs applied to every new workspace.
type Config struct {
	StockPolicy        sales.StockPolicy
	UniqueNames        bool
	LowStockThreshold  int
	HighValueThreshold decimal.Decimal
	SeedDemo           bool
}

// DefaultConfig returns the stock defaults.
func DefaultConfig() Config {
	return Config{
		StockPolicy:        sales.StockPolicyAllow,
		LowStockThreshold:  inventory.DefaultLowStockThreshold,
		HighValueThreshold: inventory.DefaultHighValueThreshold,
	}
}

// State is the set of stores a workspace guards. It is only valid inside a
// Read or Write callback.
type State struct {
	Inventory  *inventory.Store
	Credit     *credit.Ledger
	Sales      *sales.Ledger
	Quotations *quotation.Composer
	Config     Config
	// Revision counts the successful writes applied before this callback.
	Revision uint64
}

// Workspace is one session's isolated shop.
type Workspace struct {
	id         string
	generation string

	mu       sync.Mutex
	state    *State
	revision uint64
	lastUsed time.Time
}

func newWorkspace(id string, cfg Config, logger *slog.Logger, now time.Time) *Workspace {
	store := inventory.NewStore(inventory.StoreConfig{UniqueNames: cfg.UniqueNames})
	state := &State{
		Inventory:  store,
		Credit:     credit.NewLedger(),
		Sales:      sales.NewLedger(store, sales.LedgerConfig{Policy: cfg.StockPolicy, Logger: logger.With(slog.String("workspace", id))}),
		Quotations: quotation.NewComposer(store),
		Config:     cfg,
	}
	if cfg.SeedDemo {
		Seed(state)
	}
	return &Workspace{id: id, generation: uuid.NewString(), state: state, lastUsed: now}
}

// ID returns the owning session id.
func (w *Workspace) ID() string {
	return w.id
}

// Generation identifies this instance of the session's workspace. A workspace
// rebuilt after eviction or restart gets a new one, since its revision starts
// again at zero.
func (w *Workspace) Generation() string {
	return w.generation
}

// Read runs fn with exclusive access and without bumping the revision.
func (w *Workspace) Read(fn func(*State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Revision = w.revision
	fn(w.state)
}

// Write runs fn with exclusive access. A nil result bumps the revision.
func (w *Workspace) Write(fn func(*State) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Revision = w.revision
	if err := fn(w.state); err != nil {
		return err
	}
	w.revision++
	return nil
}

// Revision counts successful writes. Cached renders key on it.
func (w *Workspace) Revision() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.revision
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}
