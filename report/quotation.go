package report

import (
	"context"
	"fmt"

	"github.com/shopdesk/shopdesk/internal/quotation"
	"github.com/shopdesk/shopdesk/internal/view"
)

// QuotationTemplate is the embedded template used for quotation documents.
const QuotationTemplate = "documents/quotation.html"

// QuotationRenderer produces the printable quotation document.
type QuotationRenderer struct {
	templates *view.Engine
	client    *Client
}

// NewQuotationRenderer wires the template engine with a Gotenberg client.
func NewQuotationRenderer(templates *view.Engine, client *Client) *QuotationRenderer {
	return &QuotationRenderer{templates: templates, client: client}
}

// HTML renders the quotation document.
func (r *QuotationRenderer) HTML(q quotation.Quotation) (string, error) {
	html, err := r.templates.RenderString(QuotationTemplate, q)
	if err != nil {
		return "", fmt.Errorf("render quotation html: %w", err)
	}
	return html, nil
}

// PDF renders the quotation and converts it through Gotenberg.
func (r *QuotationRenderer) PDF(ctx context.Context, q quotation.Quotation) ([]byte, error) {
	html, err := r.HTML(q)
	if err != nil {
		return nil, err
	}
	return r.client.RenderHTML(ctx, "quotation.html", html)
}
