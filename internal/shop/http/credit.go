package shophttp

import (
	"bytes"
	"net/http"

	"github.com/shopdesk/shopdesk/internal/analytics/export"
	"github.com/shopdesk/shopdesk/internal/credit"
	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/shared"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

func (h *Handler) handleListCredits(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var resp creditsResponse
	ws.Read(func(s *workspace.State) {
		resp.Entries = s.Credit.List()
		resp.TotalOutstanding = s.Credit.TotalOutstanding()
		resp.ByCustomer = s.Credit.OutstandingByCustomer()
	})
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAddCredit(w http.ResponseWriter, r *http.Request) {
	var req addCreditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.validate(req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := shared.ParseDate(req.DueDate)
	if err != nil {
		h.fail(w, r, shared.Invalid("due_date", "must use YYYY-MM-DD"))
		return
	}
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	release, err := h.claim(r, "credits")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var entry credit.Entry
	err = ws.Write(func(s *workspace.State) error {
		var addErr error
		entry, addErr = s.Credit.Add(req.Customer, *req.AmountDue, due)
		return addErr
	})
	if err != nil {
		release()
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleExportCredits(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspace(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	ws.Read(func(s *workspace.State) {
		err = export.WriteCreditCSV(&buf, s.Credit.List())
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCSV(w, "credit-book.csv", buf.Bytes())
}
