package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/catalog-widget/pkg/logger"
)

// CorrelationHeader carries the request correlation id in both directions.
const CorrelationHeader = "X-Correlation-ID"

// maxCorrelationLen bounds client-supplied ids before they reach logs and events.
const maxCorrelationLen = 128

// RequestLogging assigns each request a correlation id, echoes it in the
// response and logs one access record when the handler returns. Probe
// requests log at debug level and 5xx responses at error level.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := correlationID(r)
			ctx := logger.WithCorrelationID(r.Context(), id)
			r = r.WithContext(ctx)
			w.Header().Set(CorrelationHeader, id)

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			l.Log(ctx, accessLevel(r.URL.Path, rec.status), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", rec.bytes),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("correlation_id", id),
			)
		})
	}
}

// correlationID returns the inbound id when it is usable, else a new UUID.
func correlationID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(CorrelationHeader))
	if id == "" || len(id) > maxCorrelationLen || strings.ContainsAny(id, "\r\n") {
		return uuid.NewString()
	}
	return id
}

func accessLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case isProbe(path):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// isProbe reports whether path is a health or scrape endpoint.
func isProbe(path string) bool {
	return path == "/metrics" || strings.HasPrefix(path, "/health/")
}
