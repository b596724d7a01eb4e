package shophttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/shopdesk/internal/analytics"
	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/quotation"
	"github.com/shopdesk/shopdesk/internal/sales"
	"github.com/shopdesk/shopdesk/internal/shared"
	_ "github.com/shopdesk/shopdesk/internal/testing/guard"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

type stubRenderer struct {
	pdf []byte
	err error
}

func (s stubRenderer) HTML(q quotation.Quotation) (string, error) {
	return "<h1>" + q.Number + "</h1>", s.err
}

func (s stubRenderer) PDF(context.Context, quotation.Quotation) ([]byte, error) {
	return s.pdf, s.err
}

type recordedEvents struct {
	sales     []bool
	documents []string
}

func (r *recordedEvents) SaleRecorded(negative bool) { r.sales = append(r.sales, negative) }

func (r *recordedEvents) DocumentRendered(format string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.documents = append(r.documents, format+":"+outcome)
}

type testEnv struct {
	handler  *Handler
	router   http.Handler
	registry *workspace.Registry
	session  *shared.Session
	events   *recordedEvents
	redis    *miniredis.Miniredis
}

func newTestEnv(t *testing.T, cfg workspace.Config, renderer QuotationRenderer) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := shared.NewSessionManager(client, "shopdesk_session", time.Hour, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sessions.Load(req.Context(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	registry := workspace.NewRegistry(cfg, time.Hour, logger, nil)
	events := &recordedEvents{}
	handler := NewHandler(Deps{
		Logger:     logger,
		Registry:   registry,
		CSRF:       shared.NewCSRFManager("test-secret"),
		Sessions:   sessions,
		Idempotent: shared.NewIdempotencyStore(client, time.Hour),
		Renderer:   renderer,
		ChartCache: analytics.NewCache(client, time.Minute),
		Metrics:    events,
		PageSize:   2,
	})
	handler.now = func() time.Time { return time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC) }

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
		})
	})
	handler.MountRoutes(router)

	return &testEnv{handler: handler, router: router, registry: registry, session: sess, events: events, redis: mr}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) post(t *testing.T, target, body, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shared.IdempotencyHeader, idempotencyKey)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) stock(t *testing.T) {
	t.Helper()
	for _, body := range []string{
		`{"item":"Pen","quantity":100,"price":5,"supplier":"SupA","category":"Stationery"}`,
		`{"item":"Notebook","quantity":40,"price":"30","supplier":"SupA","category":"stationery"}`,
		`{"item":"Stapler","quantity":8,"price":"120.00","supplier":"SupB","category":"Office Supplies"}`,
	} {
		rr := e.do(t, http.MethodPost, "/inventory", body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("add item: expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
	}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestInventoryListFiltersSortsAndPaginates(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/inventory?page=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[inventoryResponse](t, rr)
	require.Equal(t, shared.Pagination{Page: 2, PerPage: 2, Total: 3, TotalPages: 2}, resp.Pagination)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "Stapler", resp.Items[0].Name)
	require.True(t, decimal.NewFromInt(2660).Equal(resp.TotalValue))
	require.Len(t, resp.LowStock, 1)
	require.Equal(t, []string{"All Categories", "Stationery", "Office Supplies"}, resp.Categories)

	rr = env.do(t, http.MethodGet, "/inventory?q=PEN&category=Stationery&page=9", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decode[inventoryResponse](t, rr)
	require.Equal(t, 1, resp.Pagination.Page)
	require.Len(t, resp.Items, 1)
	require.True(t, decimal.NewFromInt(500).Equal(resp.TotalValue))
	require.Empty(t, resp.LowStock)

	rr = env.do(t, http.MethodGet, "/inventory?sort=price&page_size=5", "")
	resp = decode[inventoryResponse](t, rr)
	require.Equal(t, "Pen", resp.Items[0].Name)
	require.Equal(t, "Stapler", resp.Items[2].Name)
}

func TestInventoryRejectsBadQueryAndBody(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)

	rr := env.do(t, http.MethodGet, "/inventory?sort=colour", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	problem := decode[httpx.ProblemDetail](t, rr)
	require.Equal(t, "sort", problem.Field)

	rr = env.do(t, http.MethodPost, "/inventory", `{"item":"Pen","quantity":-1,"price":5,"supplier":"SupA","category":"Stationery"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "quantity", decode[httpx.ProblemDetail](t, rr).Field)

	rr = env.do(t, http.MethodPost, "/inventory", `{"item":"Kite","quantity":1,"price":5,"supplier":"SupA","category":"Toys"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "category", decode[httpx.ProblemDetail](t, rr).Field)

	rr = env.do(t, http.MethodPost, "/inventory", `{"item":"Kite","colour":"red"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "body", decode[httpx.ProblemDetail](t, rr).Field)

	rr = env.do(t, http.MethodGet, "/inventory", "")
	require.Empty(t, decode[inventoryResponse](t, rr).Items)
}

func TestUniqueNamesPolicyRejectsDuplicates(t *testing.T) {
	cfg := workspace.DefaultConfig()
	cfg.UniqueNames = true
	env := newTestEnv(t, cfg, nil)
	env.stock(t)

	rr := env.do(t, http.MethodPost, "/inventory", `{"item":"Pen","quantity":1,"price":5,"supplier":"SupB","category":"Stationery"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "item", decode[httpx.ProblemDetail](t, rr).Field)
}

func TestItemDetailAndRemove(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)
	rr := env.do(t, http.MethodPost, "/inventory", `{"item":"Pen","quantity":5,"price":7,"supplier":"SupB","category":"Stationery"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, "/inventory/items/Pen", "")
	require.Len(t, decode[itemsResponse](t, rr).Items, 2)

	rr = env.do(t, http.MethodDelete, "/inventory/items/Pen", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, removeResponse{Name: "Pen", Removed: 2}, decode[removeResponse](t, rr))

	rr = env.do(t, http.MethodDelete, "/inventory/items/Pen", "")
	require.Equal(t, 0, decode[removeResponse](t, rr).Removed)

	rr = env.do(t, http.MethodGet, "/inventory/items/Pen", "")
	require.Empty(t, decode[itemsResponse](t, rr).Items)
}

func TestStockFlags(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/inventory/low-stock", "")
	require.Len(t, decode[itemsResponse](t, rr).Items, 1)
	rr = env.do(t, http.MethodGet, "/inventory/low-stock?threshold=41", "")
	require.Len(t, decode[itemsResponse](t, rr).Items, 2)
	rr = env.do(t, http.MethodGet, "/inventory/high-value?threshold=29.99", "")
	require.Len(t, decode[itemsResponse](t, rr).Items, 2)
	rr = env.do(t, http.MethodGet, "/inventory/high-value", "")
	require.Empty(t, decode[itemsResponse](t, rr).Items)
	rr = env.do(t, http.MethodGet, "/inventory/high-value?threshold=lots", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordSaleDepletesStockAndReportsNegative(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodPost, "/sales", `{"customer":"Asha","item":"Pen","quantity":10,"unit_price":6,"date":"2026-10-18"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	sale := decode[saleResponse](t, rr)
	require.NotNil(t, sale.Available)
	require.Equal(t, 90, *sale.Available)

	rr = env.do(t, http.MethodPost, "/sales", `{"customer":"Ravi","item":"Pen","quantity":120,"unit_price":"5"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	sale = decode[saleResponse](t, rr)
	require.Equal(t, -30, *sale.Available)
	require.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), sale.Record.Date)
	require.Equal(t, []bool{false, true}, env.events.sales)

	rr = env.do(t, http.MethodGet, "/sales", "")
	list := decode[salesResponse](t, rr)
	require.Len(t, list.Records, 2)
	require.True(t, decimal.NewFromInt(660).Equal(list.TotalRevenue))

	rr = env.do(t, http.MethodPost, "/sales", `{"customer":"Ravi","item":"Pen","quantity":0,"unit_price":5}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "quantity", decode[httpx.ProblemDetail](t, rr).Field)
}

func TestRejectPolicyRefusesOversell(t *testing.T) {
	cfg := workspace.DefaultConfig()
	cfg.StockPolicy = sales.StockPolicyReject
	env := newTestEnv(t, cfg, nil)
	env.stock(t)

	rr := env.do(t, http.MethodPost, "/sales", `{"customer":"Ravi","item":"Stapler","quantity":9,"unit_price":120}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "quantity", decode[httpx.ProblemDetail](t, rr).Field)
	require.Empty(t, env.events.sales)

	rr = env.do(t, http.MethodGet, "/sales", "")
	require.Empty(t, decode[salesResponse](t, rr).Records)
}

func TestCreditBook(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)

	for _, body := range []string{
		`{"customer":"Asha","amount_due":"150","due_date":"2026-11-01"}`,
		`{"customer":"Asha","amount_due":100,"due_date":"2026-11-15"}`,
	} {
		rr := env.do(t, http.MethodPost, "/credits", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	rr := env.do(t, http.MethodPost, "/credits", `{"customer":"Asha","amount_due":10,"due_date":"01/11/2026"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "due_date", decode[httpx.ProblemDetail](t, rr).Field)

	rr = env.do(t, http.MethodPost, "/credits", `{"customer":"Asha","amount_due":0,"due_date":"2026-11-01"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/credits", "")
	book := decode[creditsResponse](t, rr)
	require.Len(t, book.Entries, 2)
	require.True(t, decimal.NewFromInt(250).Equal(book.TotalOutstanding))
	require.Len(t, book.ByCustomer, 1)

	rr = env.do(t, http.MethodGet, "/credits/export.csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Disposition"), "credit-book.csv")
	require.Contains(t, rr.Body.String(), "Asha,150.00,2026-11-01")
}

func TestInventoryExportFollowsListingOrder(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/inventory/export.csv?sort=quantity", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "Item,Quantity,Price,Supplier,Category", strings.TrimSpace(lines[0]))
	require.True(t, strings.HasPrefix(lines[1], "Stapler,8,"))
	require.True(t, strings.HasPrefix(lines[3], "Pen,100,"))
}

func TestInventoryExportDefaultsToStoreOrder(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/inventory/export.csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 4)
	for i, name := range []string{"Pen", "Notebook", "Stapler"} {
		require.True(t, strings.HasPrefix(lines[i+1], name+","), lines[i+1])
	}

	rr = env.do(t, http.MethodGet, "/inventory/export.csv?sort=colour", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInventoryListHugePageSize(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/inventory?page_size=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[inventoryResponse](t, rr)
	require.Equal(t, 1, resp.Pagination.TotalPages)
	require.Equal(t, 1, resp.Pagination.Page)
	require.Len(t, resp.Items, 3)
}

func TestQuotationDocuments(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), stubRenderer{pdf: []byte("%PDF-1.7")})
	env.stock(t)
	body := `{"customer":"Ravi","items":["Pen","Ghost","Pen"]}`

	rr := env.do(t, http.MethodPost, "/quotations", body)
	require.Equal(t, http.StatusOK, rr.Code)
	q := decode[quotation.Quotation](t, rr)
	require.Len(t, q.Lines, 1)
	require.True(t, decimal.NewFromInt(500).Equal(q.GrandTotal))

	rr = env.do(t, http.MethodPost, "/quotations/pdf", body)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	require.Regexp(t, `^attachment; filename="QT-[0-9]{4}-[0-9A-F]{8}\.pdf"$`, rr.Header().Get("Content-Disposition"))
	require.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))

	rr = env.do(t, http.MethodPost, "/quotations/html", body)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "<h1>QT-")
	require.Equal(t, []string{"pdf:ok", "html:ok"}, env.events.documents)

	rr = env.do(t, http.MethodPost, "/quotations", `{"customer":"","items":["Pen"]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "customer", decode[httpx.ProblemDetail](t, rr).Field)
}

func TestQuotationPDFUpstreamFailure(t *testing.T) {
	upstream := fmt.Errorf("gotenberg: %w", shared.ErrUpstream)
	env := newTestEnv(t, workspace.DefaultConfig(), stubRenderer{err: upstream})
	env.stock(t)

	rr := env.do(t, http.MethodPost, "/quotations/pdf", `{"customer":"Ravi","items":["Pen"]}`)
	require.Equal(t, http.StatusBadGateway, rr.Code)
	problem := decode[httpx.ProblemDetail](t, rr)
	require.Empty(t, problem.Detail)
	require.Equal(t, []string{"pdf:error"}, env.events.documents)

	env = newTestEnv(t, workspace.DefaultConfig(), stubRenderer{err: context.DeadlineExceeded})
	rr = env.do(t, http.MethodPost, "/quotations/pdf", `{"customer":"Ravi","items":["Pen"]}`)
	require.Equal(t, http.StatusGatewayTimeout, rr.Code)

	env = newTestEnv(t, workspace.DefaultConfig(), nil)
	rr = env.do(t, http.MethodPost, "/quotations/pdf", `{"customer":"Ravi","items":["Pen"]}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)
	rr := env.do(t, http.MethodPost, "/sales", `{"customer":"Asha","item":"Pen","quantity":10,"unit_price":6,"date":"2026-10-18"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = env.do(t, http.MethodPost, "/credits", `{"customer":"Mina","amount_due":40,"due_date":"2026-11-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, "/analytics?top=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[analyticsResponse](t, rr)
	require.Equal(t, 3, resp.Summary.ItemCount)
	require.Equal(t, 138, resp.Summary.TotalUnits)
	require.Equal(t, 1, resp.Summary.LowStockCount)
	require.Equal(t, 1, resp.Summary.SalesCount)
	require.True(t, decimal.NewFromInt(60).Equal(resp.Summary.Revenue))
	require.True(t, decimal.NewFromInt(40).Equal(resp.Summary.OutstandingTotal))
	require.Equal(t, []analytics.Bucket{{Key: "Stationery", Count: 2}, {Key: "Office Supplies", Count: 1}}, resp.Categories)
	require.Len(t, resp.TopItems, 1)
	require.Len(t, resp.QuantityOverTime, 1)
	require.Len(t, resp.CreditDue, 1)

	rr = env.do(t, http.MethodGet, "/analytics?top=-1", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChartsRenderAndCache(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/analytics/charts/category.svg", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), "<svg")

	rr = env.do(t, http.MethodGet, "/analytics/charts/pie.svg", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/analytics/charts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[chartsResponse](t, rr)
	require.Len(t, resp.Charts, len(analytics.Charts))
	require.Equal(t, uint64(3), resp.Revision)
	require.Contains(t, resp.Charts["sales-trend"], "No data")

	keys := env.redis.Keys()
	prefix := analytics.Key(env.session.ID, env.registry.Get(env.session.ID).Generation(), 3, "")
	cached := 0
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			cached++
		}
	}
	require.Equal(t, len(analytics.Charts), cached)
}

func TestChartCacheIgnoresRebuiltWorkspace(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	rr := env.do(t, http.MethodPost, "/inventory", `{"item":"Pen","quantity":10,"price":5,"supplier":"OldSupplier","category":"Stationery"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, "/analytics/charts/supplier.svg", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "OldSupplier")

	env.registry.Drop(env.session.ID)
	rr = env.do(t, http.MethodPost, "/inventory", `{"item":"Brush","quantity":4,"price":12,"supplier":"NewSupplier","category":"Art Supplies"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, "/analytics/charts/supplier.svg", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, "NewSupplier")
	require.NotContains(t, body, "OldSupplier")
}

func TestSessionTokenAndReset(t *testing.T) {
	env := newTestEnv(t, workspace.DefaultConfig(), nil)
	env.stock(t)

	rr := env.do(t, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[sessionResponse](t, rr)
	require.NotEmpty(t, resp.CSRFToken)
	require.Equal(t, uint64(3), resp.Revision)
	require.Equal(t, sales.StockPolicyAllow, resp.StockPolicy)
	require.Equal(t, resp.CSRFToken, env.session.Get(shared.CSRFSessionKey))

	rr = env.do(t, http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.True(t, env.session.Destroyed())
	require.Zero(t, env.registry.Len())
}

func TestWorkspaceRequiresSession(t *testing.T) {
	h := NewHandler(Deps{Registry: workspace.NewRegistry(workspace.DefaultConfig(), 0, nil, nil), CSRF: shared.NewCSRFManager("x")})
	router := chi.NewRouter()
	h.MountRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without session, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/session", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without session, got %d", rr.Code)
	}
}

func TestIdempotencyKeyPreventsDoubleSale(t *testing.T) {
	cfg := workspace.DefaultConfig()
	cfg.StockPolicy = sales.StockPolicyReject
	env := newTestEnv(t, cfg, nil)
	env.stock(t)
	body := `{"customer":"Asha","item":"Stapler","quantity":5,"unit_price":120}`

	rr := env.post(t, "/sales", body, "till-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = env.post(t, "/sales", body, "till-1")
	require.Equal(t, http.StatusConflict, rr.Code)

	// A rejected write frees its key for the corrected retry.
	rr = env.post(t, "/sales", `{"customer":"Asha","item":"Stapler","quantity":9,"unit_price":120}`, "till-2")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	rr = env.post(t, "/sales", `{"customer":"Asha","item":"Stapler","quantity":3,"unit_price":120}`, "till-2")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = env.do(t, http.MethodGet, "/sales", "")
	require.Len(t, decode[salesResponse](t, rr).Records, 2)

	rr = env.post(t, "/credits", `{"customer":"Asha","amount_due":10,"due_date":"2026-11-01"}`, "till-1")
	require.Equal(t, http.StatusCreated, rr.Code)
}
