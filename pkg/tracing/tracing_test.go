package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestInit_DisabledStillInstallsPropagator(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "catalog-widget"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "baggage")
}

func TestInit_EnabledSetsSDKProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// The batcher exports lazily, so an unreachable collector is fine here.
	shutdown, err := Init(context.Background(), Config{
		ServiceName:    "catalog-widget",
		ServiceVersion: "test",
		Environment:    "test",
		OTLPEndpoint:   "127.0.0.1:0",
		SampleRate:     0.5,
		Enabled:        true,
	})
	require.NoError(t, err)
	defer shutdown(context.Background()) //nolint:errcheck

	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
}

func sampled(t *testing.T, s sdktrace.Sampler, parent context.Context) bool {
	t.Helper()
	res := s.ShouldSample(sdktrace.SamplingParameters{
		ParentContext: parent,
		TraceID:       trace.TraceID{0x01},
		Name:          "widget.handle",
	})
	return res.Decision == sdktrace.RecordAndSample
}

func TestSampler_RootRates(t *testing.T) {
	tests := []struct {
		rate float64
		want bool
	}{
		{1, true},
		{2.5, true},
		{0, false},
		{-1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampled(t, Sampler(tt.rate), context.Background()), "rate %v", tt.rate)
	}

	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestSampler_FollowsSampledParent(t *testing.T) {
	parent := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a},
		SpanID:     trace.SpanID{0x0b},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))

	assert.True(t, sampled(t, Sampler(0), parent))
}

func TestRecordError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	_, span := tp.Tracer("test").Start(context.Background(), "catalog.load")
	RecordError(span, nil)
	RecordError(span, errors.New("feed unreachable"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "feed unreachable", spans[0].Status.Description)
	assert.Len(t, spans[0].Events, 1)
}
