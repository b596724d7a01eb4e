package workspace

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/shopdesk/internal/inventory"
	jobmetrics "github.com/shopdesk/shopdesk/internal/jobs"
	"github.com/shopdesk/shopdesk/internal/sales"
)

type gauge struct {
	mu   sync.Mutex
	last int
}

func (g *gauge) SetWorkspaces(n int) {
	g.mu.Lock()
	g.last = n
	g.mu.Unlock()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestWorkspacesAreIsolatedPerSession(t *testing.T) {
	obs := &gauge{}
	reg := NewRegistry(DefaultConfig(), time.Hour, quietLogger(), obs)

	a := reg.Get("a")
	require.NoError(t, a.Write(func(s *State) error {
		_, err := s.Inventory.Add(inventory.AddInput{Name: "Pen", Quantity: 1, Price: decimal.NewFromInt(5), Supplier: "SupA", Category: "Stationery"})
		return err
	}))

	b := reg.Get("b")
	b.Read(func(s *State) {
		require.Zero(t, s.Inventory.Len())
	})
	require.Same(t, a, reg.Get("a"))
	require.Equal(t, 2, reg.Len())
	require.Equal(t, 2, obs.last)
}

func TestWriteBumpsRevisionOnlyOnSuccess(t *testing.T) {
	ws := NewRegistry(DefaultConfig(), 0, quietLogger(), nil).Get("s")
	require.Zero(t, ws.Revision())

	require.NoError(t, ws.Write(func(*State) error { return nil }))
	require.Equal(t, uint64(1), ws.Revision())

	boom := errors.New("boom")
	require.ErrorIs(t, ws.Write(func(*State) error { return boom }), boom)
	require.Equal(t, uint64(1), ws.Revision())
}

func TestSalesDepleteTheWorkspaceInventory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedDemo = true
	ws := NewRegistry(cfg, 0, quietLogger(), nil).Get("s")

	err := ws.Write(func(s *State) error {
		_, err := s.Sales.Record(context.Background(), sales.RecordInput{
			Customer: "Asha", ItemName: "Pen", Quantity: 10, UnitPrice: decimal.NewFromFloat(6.0), Date: time.Now(),
		})
		return err
	})
	require.NoError(t, err)
	ws.Read(func(s *State) {
		qty, ok := s.Inventory.Available("Pen")
		require.True(t, ok)
		require.Equal(t, 90, qty)
		require.True(t, decimal.NewFromInt(60).Equal(s.Sales.TotalRevenue()))
	})
}

func TestRejectPolicyIsApplied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StockPolicy = sales.StockPolicyReject
	ws := NewRegistry(cfg, 0, quietLogger(), nil).Get("s")
	ws.Read(func(s *State) {
		require.Equal(t, sales.StockPolicyReject, s.Sales.Policy())
	})
}

func TestSweepEvictsIdleWorkspaces(t *testing.T) {
	obs := &gauge{}
	reg := NewRegistry(DefaultConfig(), time.Minute, quietLogger(), obs)
	clock := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	reg.Get("old")
	clock = clock.Add(50 * time.Second)
	reg.Get("fresh")
	clock = clock.Add(30 * time.Second)

	require.Equal(t, 1, reg.Sweep())
	require.Equal(t, 1, reg.Len())
	require.Equal(t, 1, obs.last)

	clock = clock.Add(2 * time.Minute)
	require.Equal(t, 1, reg.Sweep())
	require.Zero(t, reg.Len())
}

func TestGetRefreshesIdleClock(t *testing.T) {
	reg := NewRegistry(DefaultConfig(), time.Minute, quietLogger(), nil)
	clock := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	reg.Get("s")
	clock = clock.Add(50 * time.Second)
	reg.Get("s")
	clock = clock.Add(50 * time.Second)
	require.Zero(t, reg.Sweep())
}

func TestDrop(t *testing.T) {
	reg := NewRegistry(DefaultConfig(), 0, quietLogger(), nil)
	reg.Get("s")
	reg.Drop("s")
	require.Zero(t, reg.Len())
	require.Zero(t, reg.Sweep(), "ttl 0 never evicts")
}

func TestRunStopsWithContext(t *testing.T) {
	reg := NewRegistry(DefaultConfig(), time.Millisecond, quietLogger(), nil)
	reg.InstrumentJobs(jobmetrics.NewMetrics(prometheus.NewRegistry()))
	reg.Get("s")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()
	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestConcurrentWritesAreSerialised(t *testing.T) {
	ws := NewRegistry(DefaultConfig(), 0, quietLogger(), nil).Get("s")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ws.Write(func(s *State) error {
				_, err := s.Inventory.Add(inventory.AddInput{Name: "Pen", Quantity: 1, Price: decimal.NewFromInt(1), Supplier: "SupA", Category: "Stationery"})
				return err
			})
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(50), ws.Revision())
	ws.Read(func(s *State) { require.Equal(t, 50, s.Inventory.Len()) })
}

func TestSeedLoadsDemoCatalogue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SeedDemo = true
	ws := NewRegistry(cfg, 0, quietLogger(), nil).Get("s")
	ws.Read(func(s *State) {
		require.Equal(t, len(demoCatalogue), s.Inventory.Len())
		require.Len(t, inventory.HighValue(s.Inventory.List(), s.Config.HighValueThreshold), 1)
	})
}
