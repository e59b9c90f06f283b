package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const rendererOrigin = "http://localhost:5173"

func corsServe(cfg CORSConfig, method, origin string, preflight bool) (*httptest.ResponseRecorder, bool) {
	reached := false
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/v1/widget/events", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, reached
}

func productionCORS(origins ...string) CORSConfig {
	cfg := DefaultCORSConfig()
	cfg.Environment = "production"
	cfg.AllowedOrigins = origins
	return cfg
}

func TestCORS_AllowOrigin(t *testing.T) {
	tests := []struct {
		name   string
		cfg    CORSConfig
		origin string
		want   string
	}{
		{"development wildcard", DefaultCORSConfig(), rendererOrigin, "*"},
		{"listed origin", productionCORS(rendererOrigin), rendererOrigin, rendererOrigin},
		{"listed with trailing slash", productionCORS(rendererOrigin + "/"), rendererOrigin, rendererOrigin},
		{"unlisted origin", productionCORS(rendererOrigin), "https://evil.example", ""},
		{"explicit wildcard in production", productionCORS("*"), "https://shop.example", "*"},
		{"no origin header", DefaultCORSConfig(), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, reached := corsServe(tt.cfg, http.MethodGet, tt.origin, false)

			assert.True(t, reached)
			assert.Equal(t, tt.want, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_VaryOnOrigin(t *testing.T) {
	rr, _ := corsServe(productionCORS(rendererOrigin), http.MethodGet, "https://other.example", false)

	assert.Equal(t, "Origin", rr.Header().Get("Vary"), "caches must key on origin even when it is refused")
}

func TestCORS_WildcardWithCredentialsEchoesOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowCredentials = true

	rr, _ := corsServe(cfg, http.MethodGet, rendererOrigin, false)

	assert.Equal(t, rendererOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Preflight(t *testing.T) {
	rr, reached := corsServe(DefaultCORSConfig(), http.MethodOptions, rendererOrigin, true)

	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_PlainOptionsPassesThrough(t *testing.T) {
	rr, reached := corsServe(DefaultCORSConfig(), http.MethodOptions, rendererOrigin, false)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_ExposesCorrelationID(t *testing.T) {
	rr, _ := corsServe(DefaultCORSConfig(), http.MethodPost, rendererOrigin, false)

	assert.Equal(t, "X-Correlation-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Methods"), "method list is only for preflight")
}

func TestCORS_DefaultsFillEmptyConfig(t *testing.T) {
	rr, _ := corsServe(CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodOptions, rendererOrigin, true)

	assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
}
