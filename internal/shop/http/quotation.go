package shophttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/quotation"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

// errNoRenderer is returned when document rendering is not configured.
var errNoRenderer = errors.New("shophttp: quotation renderer not configured")

// buildQuotation decodes the request and composes the quotation against the
// caller's catalogue.
func (h *Handler) buildQuotation(r *http.Request) (quotation.Quotation, error) {
	var req quotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return quotation.Quotation{}, err
	}
	if err := h.validate(req); err != nil {
		return quotation.Quotation{}, err
	}
	ws, err := h.workspace(r)
	if err != nil {
		return quotation.Quotation{}, err
	}
	var q quotation.Quotation
	ws.Read(func(s *workspace.State) {
		q, err = s.Quotations.Build(req.Customer, req.Items)
	})
	return q, err
}

func (h *Handler) handleBuildQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.buildQuotation(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) handleQuotationHTML(w http.ResponseWriter, r *http.Request) {
	q, err := h.buildQuotation(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.renderer == nil {
		h.fail(w, r, errNoRenderer)
		return
	}
	html, err := h.renderer.HTML(q)
	h.metrics.DocumentRendered("html", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (h *Handler) handleQuotationPDF(w http.ResponseWriter, r *http.Request) {
	q, err := h.buildQuotation(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.renderer == nil {
		h.fail(w, r, errNoRenderer)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.pdfTimeout)
	defer cancel()

	pdf, err := h.renderer.PDF(ctx, q)
	h.metrics.DocumentRendered("pdf", err)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+q.Number+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
