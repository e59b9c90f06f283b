package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-widget/internal/cart"
	"github.com/utafrali/catalog-widget/internal/catalog"
	"github.com/utafrali/catalog-widget/internal/controller"
	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/internal/metrics"
	"github.com/utafrali/catalog-widget/internal/repository/memory"
	"github.com/utafrali/catalog-widget/pkg/health"
	"github.com/utafrali/catalog-widget/pkg/logger"
	"github.com/utafrali/catalog-widget/pkg/middleware"
)

// ============================================================================
// Test helpers
// ============================================================================

type testHost struct {
	router http.Handler
	widget *WidgetHandler
	repo   *memory.StateStore
}

func newTestHost(t *testing.T) *testHost {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	repo := memory.NewStateStore()
	store := cart.NewStore(repo, "haircare", logger.Discard(), m)
	snap := NewSnapshot()

	opts := controller.DefaultOptions()
	opts.RemoveTransition = 0
	ctrl := controller.New(store, snap, snap, logger.Discard(), m, opts)
	widget := NewWidgetHandler(ctrl, snap, logger.Discard())

	hh := health.NewHandler()
	hh.RegisterCritical("catalog", widget.CheckCatalog)

	router := NewRouter(widget, hh, logger.Discard(), RouterConfig{
		Namespace: "haircare",
		CORS:      middleware.DefaultCORSConfig(),
		Gatherer:  reg,
	})
	return &testHost{router: router, widget: widget, repo: repo}
}

func (h *testHost) load(t *testing.T) {
	t.Helper()
	require.NoError(t, h.widget.Load(context.Background(), catalog.SampleSource()))
}

func (h *testHost) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return env.Error
}

// ============================================================================
// View
// ============================================================================

func TestGetView_BeforeLoad(t *testing.T) {
	h := newTestHost(t)

	rr := h.do(t, http.MethodGet, "/api/v1/widget/view", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	resp := decodeData[WidgetResponse](t, rr)
	assert.Equal(t, domain.StatusPending, resp.View.Status)
	assert.Empty(t, resp.Notices)
}

func TestGetView_AfterLoad(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	resp := decodeData[WidgetResponse](t, h.do(t, http.MethodGet, "/api/v1/widget/view", nil))

	assert.Equal(t, domain.StatusLoaded, resp.View.Status)
	assert.Len(t, resp.View.Products, 8)
	require.NotNil(t, resp.View.Pagination)
	assert.Equal(t, 3, resp.View.Pagination.PageCount)
}

// ============================================================================
// Events
// ============================================================================

func TestPostEvent_IgnoredBeforeLoad(t *testing.T) {
	h := newTestHost(t)

	rr := h.do(t, http.MethodPost, "/api/v1/widget/events", EventRequest{Type: "add_to_cart", ProductID: 1})

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeData[EventResponse](t, rr)
	assert.True(t, resp.Ignored)
	assert.Equal(t, 0, resp.View.CartCount)
}

func TestPostEvent_AddToCartDrainsNotice(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	rr := h.do(t, http.MethodPost, "/api/v1/widget/events", EventRequest{Type: "add_to_cart", ProductID: 1})

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeData[EventResponse](t, rr)
	assert.True(t, resp.CartChanged)
	assert.Equal(t, 1, resp.View.CartCount)
	assert.Equal(t, []domain.Notice{{Message: "Added Parachute Coconut Oil to cart!", Severity: domain.SeveritySuccess}}, resp.Notices)

	again := decodeData[WidgetResponse](t, h.do(t, http.MethodGet, "/api/v1/widget/view", nil))
	assert.Empty(t, again.Notices, "notices are delivered once")

	data, err := h.repo.Get(context.Background(), "haircare_cart_items")
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,1]]`, string(data))
}

func TestPostEvent_CategoryPreview(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	resp := decodeData[EventResponse](t, h.do(t, http.MethodPost, "/api/v1/widget/events",
		EventRequest{Type: "category_selected", Category: "Hair Oil"}))

	assert.True(t, resp.FilterChanged)
	assert.Len(t, resp.View.Products, 8)
	require.NotNil(t, resp.View.PreviewBanner)
	assert.Equal(t, 3, resp.View.PreviewBanner.RemainingCount)

	resp = decodeData[EventResponse](t, h.do(t, http.MethodPost, "/api/v1/widget/events",
		EventRequest{Type: "show_all_in_category"}))
	assert.Len(t, resp.View.Products, 11)
	assert.Nil(t, resp.View.PreviewBanner)
}

func TestPostEvent_Validation(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing type", EventRequest{}, "type"},
		{"unknown type", EventRequest{Type: "dance"}, "type"},
		{"negative product", EventRequest{Type: "add_to_cart", ProductID: -1}, "product_id"},
		{"negative page", EventRequest{Type: "page_changed", Page: -2}, "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := h.do(t, http.MethodPost, "/api/v1/widget/events", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			errBody := decodeError(t, rr)
			assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
			fields, ok := errBody["fields"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestPostEvent_MalformedBody(t *testing.T) {
	h := newTestHost(t)

	for _, body := range []string{`{"type":`, `{"type":"clear_cart","extra":1}`} {
		rr := h.do(t, http.MethodPost, "/api/v1/widget/events", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, rr)["code"])
	}
}

func TestPostEvent_WrongContentType(t *testing.T) {
	h := newTestHost(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/widget/events", bytes.NewBufferString("type=clear_cart"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

// ============================================================================
// Cart, categories, products
// ============================================================================

func TestGetCart(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	empty := decodeData[domain.CartSummary](t, h.do(t, http.MethodGet, "/api/v1/widget/cart", nil))
	assert.NotNil(t, empty.Lines)
	assert.Empty(t, empty.Lines)

	h.do(t, http.MethodPost, "/api/v1/widget/events", EventRequest{Type: "add_to_cart", ProductID: 2})
	h.do(t, http.MethodPost, "/api/v1/widget/events", EventRequest{Type: "add_to_cart", ProductID: 2})

	summary := decodeData[domain.CartSummary](t, h.do(t, http.MethodGet, "/api/v1/widget/cart", nil))
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, int64(490), summary.TotalPrice)
}

func TestListCategories(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	categories := decodeData[[]domain.CategoryCount](t, h.do(t, http.MethodGet, "/api/v1/widget/categories", nil))

	require.Len(t, categories, 5)
	assert.Equal(t, domain.CategoryCount{Category: domain.AllCategories, Count: 24}, categories[0])
	assert.Equal(t, "Hair Oil", categories[1].Category)
}

func TestGetProduct(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	rr := h.do(t, http.MethodGet, "/api/v1/widget/products/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	card := decodeData[domain.ProductCard](t, rr)
	assert.Equal(t, "Parachute Coconut Oil", card.Product.Name)
	assert.Equal(t, int64(234), card.Pricing.MRP)
	assert.Equal(t, 15, card.Pricing.DiscountPercent)
}

func TestGetProduct_Errors(t *testing.T) {
	h := newTestHost(t)
	h.load(t)

	rr := h.do(t, http.MethodGet, "/api/v1/widget/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rr)["code"])

	rr = h.do(t, http.MethodGet, "/api/v1/widget/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rr)["code"])
}

// ============================================================================
// Health and metrics
// ============================================================================

func TestReadiness_FollowsCatalogLoad(t *testing.T) {
	h := newTestHost(t)

	rr := h.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	h.load(t)

	rr = h.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCheckCatalog_FailedLoad(t *testing.T) {
	h := newTestHost(t)
	_ = h.widget.Load(context.Background(), catalog.NewFileSource("/nonexistent/products.json"))

	assert.Error(t, h.widget.CheckCatalog(context.Background()))
	assert.Equal(t, domain.StatusFailed, h.widget.Status())

	resp := decodeData[WidgetResponse](t, h.do(t, http.MethodGet, "/api/v1/widget/view", nil))
	assert.Equal(t, []domain.Notice{{
		Message:  "Failed to load products. Please refresh the page.",
		Severity: domain.SeverityError,
	}}, resp.Notices)
	assert.True(t, resp.View.Empty)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHost(t)
	h.load(t)
	h.do(t, http.MethodPost, "/api/v1/widget/events", EventRequest{Type: "add_to_cart", ProductID: 1})

	rr := h.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `widget_cart_mutations_total{op="add"} 1`)
	assert.Contains(t, rr.Body.String(), "widget_catalog_products 24")
}

// ============================================================================
// Snapshot
// ============================================================================

func TestSnapshot_DropsOldestNotice(t *testing.T) {
	s := NewSnapshot()
	for i := 0; i < maxPendingNotices+3; i++ {
		s.Notify(context.Background(), domain.Notice{Message: string(rune('a' + i%26)), Severity: domain.SeverityInfo})
	}

	notices := s.Drain()
	assert.Len(t, notices, maxPendingNotices)
	assert.Equal(t, "d", notices[0].Message)
	assert.Empty(t, s.Drain())
}
