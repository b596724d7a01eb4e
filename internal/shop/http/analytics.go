package shophttp

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/shopdesk/shopdesk/internal/analytics"
	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/shared"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

// snapshot copies what the dashboard needs out of the workspace so rendering
// happens without holding its lock.
type snapshot struct {
	id         string
	generation string
	revision   uint64
	charts   analytics.ChartInput
}

func (h *Handler) takeSnapshot(ws *workspace.Workspace) snapshot {
	snap := snapshot{id: ws.ID(), generation: ws.Generation()}
	ws.Read(func(s *workspace.State) {
		items := s.Inventory.List()
		snap.revision = s.Revision
		snap.charts = analytics.ChartInput{
			Distribution: analytics.CategoryDistribution(items),
			Suppliers:    analytics.SupplierDistribution(items),
			Values:       analytics.ValueByCategory(items),
			SalesTrend:   s.Sales.QuantityOverTime(),
			CreditTrend:  s.Credit.DueOverTime(),
		}
	})
	return snap
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	top := h.topN
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(w, r, shared.Invalid("top", "must be a non-negative integer"))
			return
		}
		top = n
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp analyticsResponse
	ws.Read(func(s *workspace.State) {
		items := s.Inventory.List()
		resp.Summary = analytics.BuildSummary(analytics.SummaryInput{
			Items:         items,
			CreditEntries: s.Credit.Len(),
			Outstanding:   s.Credit.TotalOutstanding(),
			SalesCount:    s.Sales.Len(),
			Revenue:       s.Sales.TotalRevenue(),
			Thresholds: analytics.Thresholds{
				LowStock:  s.Config.LowStockThreshold,
				HighValue: s.Config.HighValueThreshold,
			},
		})
		resp.Categories = analytics.CategoryDistribution(items)
		resp.Suppliers = analytics.SupplierDistribution(items)
		resp.ValueByCategory = analytics.ValueByCategory(items)
		resp.QuantityOverTime = s.Sales.QuantityOverTime()
		resp.RevenueOverTime = s.Sales.RevenueOverTime()
		resp.CreditDue = s.Credit.DueOverTime()
		resp.TopItems = s.Sales.TopItemsByQuantity(top)
		resp.TopCustomers = s.Sales.TopCustomersByQuantity(top)
		resp.OutstandingByName = s.Credit.OutstandingByCustomer()
	})
	httpx.JSON(w, http.StatusOK, resp)
}

// renderChart returns the SVG for chart, going through the chart cache.
func (h *Handler) renderChart(ctx context.Context, snap snapshot, chart analytics.Chart) ([]byte, error) {
	key := analytics.Key(snap.id, snap.generation, snap.revision, string(chart))
	return h.charts.Fetch(ctx, key, func(context.Context) ([]byte, error) {
		body, err := analytics.RenderChart(chart, snap.charts)
		if err != nil {
			return nil, err
		}
		return []byte(body), nil
	})
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, err := analytics.ParseChart(strings.TrimSuffix(chi.URLParam(r, "chart"), ".svg"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.renderChart(r.Context(), h.takeSnapshot(ws), chart)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) handleAllCharts(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	snap := h.takeSnapshot(ws)

	var mu sync.Mutex
	charts := make(map[string]string, len(analytics.Charts))
	g, ctx := errgroup.WithContext(r.Context())
	for _, chart := range analytics.Charts {
		chart := chart
		g.Go(func() error {
			body, err := h.renderChart(ctx, snap, chart)
			if err != nil {
				return err
			}
			mu.Lock()
			charts[string(chart)] = string(body)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, chartsResponse{Revision: snap.revision, Charts: charts})
}
