// Package shophttp exposes the shop workspace over a JSON API.
package shophttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopdesk/shopdesk/internal/analytics"
	"github.com/shopdesk/shopdesk/internal/platform/httpx"
	"github.com/shopdesk/shopdesk/internal/quotation"
	"github.com/shopdesk/shopdesk/internal/shared"
	"github.com/shopdesk/shopdesk/internal/workspace"
)

// QuotationRenderer turns a quotation into printable documents.
type QuotationRenderer interface {
	HTML(q quotation.Quotation) (string, error)
	PDF(ctx context.Context, q quotation.Quotation) ([]byte, error)
}

// Recorder receives domain events for metrics.
type Recorder interface {
	SaleRecorded(negative bool)
	DocumentRendered(format string, err error)
}

// Deps groups the collaborators of Handler.
type Deps struct {
	Logger     *slog.Logger
	Registry   *workspace.Registry
	CSRF       *shared.CSRFManager
	Sessions   *shared.SessionManager
	Idempotent *shared.IdempotencyStore
	Renderer   QuotationRenderer
	ChartCache *analytics.Cache
	Metrics    Recorder
	PageSize   int
	PDFTimeout time.Duration
	TopN       int
}

// Handler serves the shop API.
type Handler struct {
	logger     *slog.Logger
	registry   *workspace.Registry
	csrf       *shared.CSRFManager
	sessions   *shared.SessionManager
	idempotent *shared.IdempotencyStore
	renderer   QuotationRenderer
	charts     *analytics.Cache
	metrics    Recorder
	validator  *validator.Validate
	pageSize   int
	pdfTimeout time.Duration
	topN       int
	now        func() time.Time
}

// NewHandler constructs the API handler.
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopRecorder{}
	}
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = shared.DefaultPerPage
	}
	pdfTimeout := deps.PDFTimeout
	if pdfTimeout <= 0 {
		pdfTimeout = 20 * time.Second
	}
	topN := deps.TopN
	if topN <= 0 {
		topN = 5
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		logger:     logger,
		registry:   deps.Registry,
		csrf:       deps.CSRF,
		sessions:   deps.Sessions,
		idempotent: deps.Idempotent,
		renderer:   deps.Renderer,
		charts:     deps.ChartCache,
		metrics:    metrics,
		validator:  v,
		pageSize:   pageSize,
		pdfTimeout: pdfTimeout,
		topN:       topN,
		now:        time.Now,
	}
}

// MountRoutes registers the API routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/session", h.handleSession)
	r.Delete("/session", h.handleResetSession)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.handleListInventory)
		r.Post("/", h.handleAddItem)
		r.Get("/items/{name}", h.handleItemDetail)
		r.Delete("/items/{name}", h.handleRemoveItem)
		r.Get("/low-stock", h.handleLowStock)
		r.Get("/high-value", h.handleHighValue)
		r.Get("/export.csv", h.handleExportInventory)
	})

	r.Route("/credits", func(r chi.Router) {
		r.Get("/", h.handleListCredits)
		r.Post("/", h.handleAddCredit)
		r.Get("/export.csv", h.handleExportCredits)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.handleListSales)
		r.Post("/", h.handleRecordSale)
		r.Get("/export.csv", h.handleExportSales)
	})

	r.Route("/quotations", func(r chi.Router) {
		r.Post("/", h.handleBuildQuotation)
		r.Post("/html", h.handleQuotationHTML)
		r.Post("/pdf", h.handleQuotationPDF)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/", h.handleAnalytics)
		r.Get("/charts", h.handleAllCharts)
		r.Get("/charts/{chart}.svg", h.handleChart)
	})
}

// workspace resolves the caller's workspace from the session in context.
func (h *Handler) workspace(r *http.Request) (*workspace.Workspace, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return nil, errors.New("shophttp: no session in request context")
	}
	return h.registry.Get(sess.ID), nil
}

// claim reserves the request's Idempotency-Key for module. Keys are scoped to
// the session. The returned release undoes the claim after a failed write.
func (h *Handler) claim(r *http.Request, module string) (func(), error) {
	key := strings.TrimSpace(r.Header.Get(shared.IdempotencyHeader))
	if key == "" || h.idempotent == nil {
		return func() {}, nil
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		key = sess.ID + ":" + key
	}
	if err := h.idempotent.CheckAndInsert(r.Context(), key, module); err != nil {
		return func() {}, err
	}
	return func() {
		ctx := context.WithoutCancel(r.Context())
		if err := h.idempotent.Delete(ctx, key, module); err != nil {
			h.logger.WarnContext(ctx, "release idempotency key", slog.String("module", module), slog.Any("error", err))
		}
	}, nil
}

// validate runs struct tags and converts the first failure into a
// ValidationError.
func (h *Handler) validate(req any) error {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return shared.Invalid(fe.Field(), describeTag(fe))
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// fail logs and writes an error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := httpx.Status(err)
	attrs := []any{slog.String("path", r.URL.Path), slog.Any("error", err)}
	switch {
	case status >= http.StatusInternalServerError:
		h.logger.ErrorContext(r.Context(), "request failed", attrs...)
	default:
		h.logger.DebugContext(r.Context(), "request rejected", attrs...)
	}
	httpx.RespondError(w, err)
}

type noopRecorder struct{}

func (noopRecorder) SaleRecorded(bool)              {}
func (noopRecorder) DocumentRendered(string, error) {}
