package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog-widget/internal/catalog"
	"github.com/utafrali/catalog-widget/internal/controller"
	"github.com/utafrali/catalog-widget/internal/domain"
	apperrors "github.com/utafrali/catalog-widget/pkg/errors"
	"github.com/utafrali/catalog-widget/pkg/httputil"
	"github.com/utafrali/catalog-widget/pkg/validator"
)

// WidgetHandler serves the single widget session. The controller is not safe
// for concurrent use, so every call into it holds mu.
type WidgetHandler struct {
	mu       sync.Mutex
	ctrl     *controller.Controller
	snapshot *Snapshot
	logger   *slog.Logger
}

// NewWidgetHandler creates a handler over ctrl. snapshot must be the
// controller's renderer and one of its notifiers.
func NewWidgetHandler(ctrl *controller.Controller, snapshot *Snapshot, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{
		ctrl:     ctrl,
		snapshot: snapshot,
		logger:   logger,
	}
}

// --- Request DTOs ---

// EventRequest is the JSON body of POST /api/v1/widget/events.
type EventRequest struct {
	Type      string `json:"type" validate:"required,oneof=category_selected search_input search_submitted search_cleared suggestion_selected add_to_cart remove_from_cart clear_cart page_changed show_all_in_category"`
	Category  string `json:"category" validate:"max=200"`
	Term      string `json:"term" validate:"max=200"`
	ProductID int    `json:"product_id" validate:"gte=0"`
	Page      int    `json:"page" validate:"gte=0"`
}

func (r EventRequest) event() controller.Event {
	return controller.Event{
		Type:      controller.EventType(r.Type),
		Category:  r.Category,
		Term:      r.Term,
		ProductID: r.ProductID,
		Page:      r.Page,
	}
}

// --- Response DTOs ---

// WidgetResponse carries the latest view and the notices raised since the
// last response.
type WidgetResponse struct {
	View    domain.ViewModel `json:"view"`
	Notices []domain.Notice  `json:"notices"`
}

// EventResponse is WidgetResponse plus what the event changed.
type EventResponse struct {
	WidgetResponse
	Ignored       bool `json:"ignored"`
	FilterChanged bool `json:"filter_changed"`
	ViewChanged   bool `json:"view_changed"`
	CartChanged   bool `json:"cart_changed"`
}

// --- Lifecycle ---

// Load runs the controller's startup load under the session lock.
func (h *WidgetHandler) Load(ctx context.Context, src catalog.Source) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl.Load(ctx, src)
}

// Status reports the catalog load status.
func (h *WidgetHandler) Status() domain.LoadStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl.State().Status
}

// CheckCatalog is a health.Checker that fails until the catalog has loaded.
func (h *WidgetHandler) CheckCatalog(context.Context) error {
	switch h.Status() {
	case domain.StatusLoaded:
		return nil
	case domain.StatusFailed:
		return apperrors.ErrLoad
	default:
		return apperrors.ErrServiceUnavail
	}
}

// --- Handlers ---

// GetView handles GET /api/v1/widget/view
func (h *WidgetHandler) GetView(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, WidgetResponse{
		View:    h.snapshot.View(),
		Notices: h.snapshot.Drain(),
	})
}

// PostEvent handles POST /api/v1/widget/events
func (h *WidgetHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.mu.Lock()
	d := h.ctrl.Handle(r.Context(), req.event())
	h.mu.Unlock()

	httputil.WriteData(w, EventResponse{
		WidgetResponse: WidgetResponse{
			View:    h.snapshot.View(),
			Notices: h.snapshot.Drain(),
		},
		Ignored:       d.Ignored,
		FilterChanged: d.FilterChanged,
		ViewChanged:   d.ViewChanged,
		CartChanged:   d.CartChanged,
	})
}

// GetCart handles GET /api/v1/widget/cart
func (h *WidgetHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	summary := h.ctrl.CartSummary()
	h.mu.Unlock()

	if summary.Lines == nil {
		summary.Lines = []domain.LineItem{}
	}
	httputil.WriteData(w, summary)
}

// ListCategories handles GET /api/v1/widget/categories
func (h *WidgetHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	categories := h.ctrl.Categories()
	h.mu.Unlock()

	httputil.WriteData(w, categories)
}

// GetProduct handles GET /api/v1/widget/products/{id}
func (h *WidgetHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	h.mu.Lock()
	card, err := h.ctrl.ProductDetail(id)
	h.mu.Unlock()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, card)
}
