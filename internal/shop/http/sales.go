package shophttp

import (
	"bytes"
	"net/http"

	"github.com/shopdesk/shopdesk/internal/analytics/export"
	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/sales"
	"github.com/shopdesk/shopdesk/internal/shared"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var resp salesResponse
	ws.Read(func(s *workspace.State) {
		resp.Records = s.Sales.List()
		resp.TotalRevenue = s.Sales.TotalRevenue()
	})
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRecordSale(w http.ResponseWriter, r *http.Request) {
	var req recordSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.validate(req); err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := shared.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if date.IsZero() {
		date = h.now()
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	release, err := h.claim(r, "sales")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var resp saleResponse
	err = ws.Write(func(s *workspace.State) error {
		record, recErr := s.Sales.Record(r.Context(), req.input(date))
		if recErr != nil {
			return recErr
		}
		resp.Record = record
		if qty, ok := s.Inventory.Available(record.ItemName); ok {
			resp.Available = &qty
		}
		return nil
	})
	if err != nil {
		release()
		h.fail(w, r, err)
		return
	}
	h.metrics.SaleRecorded(resp.Available != nil && *resp.Available < 0)
	httpx.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleExportSales(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var (
		buf     bytes.Buffer
		records []sales.Record
	)
	ws.Read(func(s *workspace.State) {
		records = s.Sales.List()
	})
	if err := export.WriteSalesCSV(&buf, records); err != nil {
		h.fail(w, r, err)
		return
	}
	writeCSV(w, "sales.csv", buf.Bytes())
}
