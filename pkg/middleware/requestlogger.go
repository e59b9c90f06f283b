package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/catalog-widget/pkg/logger"
)

// NamespaceHeader lets a renderer tag its requests with the storage namespace
// it expects the host to serve.
const NamespaceHeader = "X-Widget-Namespace"

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, namespace, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// Mount it after RequestLogging (which sets correlation_id) and Tracing
// (which sets the span context).
func RequestLogger(base *slog.Logger, namespace string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ns := namespace
			if ns == "" {
				ns = r.Header.Get(NamespaceHeader)
			}
			if ns != "" {
				ctx = logger.WithNamespace(ctx, ns)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
