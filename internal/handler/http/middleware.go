package http

import (
	"mime"
	"net/http"

	"github.com/utafrali/catalog-widget/pkg/httputil"
)

// requireJSON rejects request bodies declared as anything but JSON. A
// missing Content-Type is accepted; renderers posting from fetch() often
// omit it.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" && r.Body != http.NoBody {
			mt, _, err := mime.ParseMediaType(ct)
			if err != nil || mt != "application/json" {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "request body must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
