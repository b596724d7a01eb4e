package shophttp

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/shopdesk/internal/analytics/export"
	"github.com/shopdesk/shopdesk/internal/inventory"
	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/shared"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

// listQuery is the parsed query string of GET /inventory.
type listQuery struct {
	term     string
	category string
	sort     inventory.SortField
	page     int
	pageSize int
}

func (h *Handler) parseListQuery(values url.Values) (listQuery, error) {
	q := listQuery{
		term:     values.Get("q"),
		category: values.Get("category"),
		page:     1,
		pageSize: h.pageSize,
	}
	sort, err := inventory.ParseSortField(values.Get("sort"))
	if err != nil {
		return listQuery{}, err
	}
	q.sort = sort
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return listQuery{}, shared.Invalid("page", "must be an integer")
		}
		q.page = page
	}
	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return listQuery{}, shared.Invalid("page_size", "must be at least 1")
		}
		q.pageSize = size
	}
	return q, nil
}

func (h *Handler) handleListInventory(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseListQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp inventoryResponse
	ws.Read(func(s *workspace.State) {
		filtered := inventory.Sort(inventory.Filter(s.Inventory.List(), query.term, query.category), query.sort)
		resp.Pagination = shared.NewPagination(query.page, query.pageSize, len(filtered))
		resp.Items, err = inventory.Paginate(filtered, resp.Pagination.PerPage, resp.Pagination.Page)
		resp.TotalValue = inventory.TotalValue(filtered)
		resp.LowStock = inventory.LowStock(filtered, s.Config.LowStockThreshold)
		resp.Categories = categoryChoices(s.Inventory.Categories())
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// categoryChoices prepends the "all" sentinel to the categories in use.
func categoryChoices(in []inventory.Category) []string {
	out := make([]string, 0, len(in)+1)
	out = append(out, inventory.AllCategories)
	for _, c := range in {
		out = append(out, string(c))
	}
	return out
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.validate(req); err != nil {
		h.fail(w, r, err)
		return
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var item inventory.Item
	err = ws.Write(func(s *workspace.State) error {
		var addErr error
		item, addErr = s.Inventory.Add(req.input())
		return addErr
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var items []inventory.Item
	ws.Read(func(s *workspace.State) {
		items = s.Inventory.GetByName(name)
	})
	httpx.JSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if strings.TrimSpace(name) == "" {
		h.fail(w, r, shared.Invalid("item", "is required"))
		return
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	removed := 0
	_ = ws.Write(func(s *workspace.State) error {
		removed = s.Inventory.Remove(name)
		return nil
	})
	httpx.JSON(w, http.StatusOK, removeResponse{Name: name, Removed: removed})
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	threshold := -1
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err = strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			h.fail(w, r, shared.Invalid("threshold", "must be a non-negative integer"))
			return
		}
	}
	var items []inventory.Item
	ws.Read(func(s *workspace.State) {
		if threshold < 0 {
			threshold = s.Config.LowStockThreshold
		}
		items = inventory.LowStock(s.Inventory.List(), threshold)
	})
	httpx.JSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handler) handleHighValue(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var threshold *decimal.Decimal
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			h.fail(w, r, shared.Invalid("threshold", "must be a non-negative number"))
			return
		}
		threshold = &parsed
	}
	var items []inventory.Item
	ws.Read(func(s *workspace.State) {
		limit := s.Config.HighValueThreshold
		if threshold != nil {
			limit = *threshold
		}
		items = inventory.HighValue(s.Inventory.List(), limit)
	})
	httpx.JSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handler) handleExportInventory(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	values := r.URL.Query()
	// Without an explicit sort the export keeps store order.
	var sortField inventory.SortField
	if raw := values.Get("sort"); raw != "" {
		if sortField, err = inventory.ParseSortField(raw); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	var buf bytes.Buffer
	ws.Read(func(s *workspace.State) {
		items := inventory.Filter(s.Inventory.List(), values.Get("q"), values.Get("category"))
		if sortField != "" {
			items = inventory.Sort(items, sortField)
		}
		err = export.WriteInventoryCSV(&buf, items)
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCSV(w, "inventory.csv", buf.Bytes())
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
