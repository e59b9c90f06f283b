package catalog

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/pkg/httpclient"
	"github.com/utafrali/catalog-widget/pkg/tracing"
)

const tracerName = "github.com/utafrali/catalog-widget/internal/catalog"

// HTTPSource fetches the feed with an HTTP GET. Any non-2xx status or an
// unparseable body fails the load.
type HTTPSource struct {
	url    string
	client httpclient.Getter
}

// NewHTTPSource fetches url through client, typically a
// *httpclient.CircuitBreakerClient.
func NewHTTPSource(url string, client httpclient.Getter) *HTTPSource {
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Load(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "catalog.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", s.url)),
	)
	defer span.End()

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if err := httpclient.CheckResponse(resp); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	var products []domain.Product
	if err := httpclient.DecodeJSON(resp, &products); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("parse catalog feed: %w", err)
	}

	span.SetAttributes(attribute.Int("catalog.records", len(products)))
	return products, nil
}

func (s *HTTPSource) Name() string { return s.url }
