package middleware

import "net/http"

// NoStore marks responses as uncacheable. Widget state changes with every
// event, so view and cart reads must always reach the host.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
