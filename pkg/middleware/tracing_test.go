package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/utafrali/catalog-widget/pkg/logger"
)

// setupTestTracer installs an in-memory span exporter as the global provider
// for the duration of the test.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	return exporter
}

func tracedRouter(status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Tracing("catalog-widget"))
	handler := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(status) }
	r.Get("/api/v1/widget/products/{id}", handler)
	r.Get("/health/ready", handler)
	return r
}

func spanAttr(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	exporter := setupTestTracer(t)

	rr := httptest.NewRecorder()
	tracedRouter(http.StatusOK).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/widget/products/3", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/widget/products/{id}", spans[0].Name)

	route, ok := spanAttr(spans[0], "http.route")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/widget/products/{id}", route.AsString())
}

func TestTracing_RecordsStatus(t *testing.T) {
	exporter := setupTestTracer(t)

	tracedRouter(http.StatusNotFound).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/api/v1/widget/products/99", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	status, ok := spanAttr(spans[0], "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(404), status.AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status.Code, "client errors leave the span unset")
}

func TestTracing_ServerErrorMarksSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	tracedRouter(http.StatusInternalServerError).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/api/v1/widget/products/1", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	exporter := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/widget/products/1", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rr := httptest.NewRecorder()
	tracedRouter(http.StatusOK).ServeHTTP(rr, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.NotEmpty(t, rr.Header().Get("traceparent"))
}

func TestTracing_SkipsProbes(t *testing.T) {
	exporter := setupTestTracer(t)

	rr := httptest.NewRecorder()
	tracedRouter(http.StatusOK).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, exporter.GetSpans())
	assert.Empty(t, rr.Header().Get("traceparent"))
}

func TestTracing_TagsCorrelationID(t *testing.T) {
	exporter := setupTestTracer(t)

	r := chi.NewRouter()
	r.Use(RequestLogging(logger.Discard()))
	r.Use(Tracing("catalog-widget"))
	r.Get("/api/v1/widget/view", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/widget/view", nil)
	req.Header.Set("X-Correlation-ID", "corr-123")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	id, ok := spanAttr(spans[0], "correlation_id")
	require.True(t, ok)
	assert.Equal(t, "corr-123", id.AsString())
}
