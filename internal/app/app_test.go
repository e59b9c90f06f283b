package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-widget/internal/catalog"
	"github.com/utafrali/catalog-widget/internal/config"
	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/pkg/logger"
)

func newTestApp(t *testing.T, vars map[string]string) *App {
	t.Helper()
	if vars["REMOVE_TRANSITION_MS"] == "" {
		vars["REMOVE_TRANSITION_MS"] = "0"
	}
	cfg, err := config.LoadFrom(vars)
	require.NoError(t, err)

	a, err := NewApp(cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })
	return a
}

func serve(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewApp_MemoryStore_ServesSampleCatalog(t *testing.T) {
	a := newTestApp(t, map[string]string{"CART_STORE": "memory"})

	rr := serve(t, a.Handler(), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code, "not ready before the catalog loads")

	require.NoError(t, a.LoadCatalog(context.Background()))

	rr = serve(t, a.Handler(), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(t, a.Handler(), http.MethodGet, "/api/v1/widget/view", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Data struct {
			View domain.ViewModel `json:"view"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.StatusLoaded, env.Data.View.Status)
	assert.Len(t, env.Data.View.Products, domain.DefaultProductsPerPage)
}

func TestNewApp_RedisStore_RestoresAndPersistsCart(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("haircare_cart_items", "[[3,2],[999,1]]"))

	a := newTestApp(t, map[string]string{
		"CART_STORE": "redis",
		"REDIS_ADDR": mr.Addr(),
	})
	require.NoError(t, a.LoadCatalog(context.Background()))

	// 999 is not in the sample catalog and is dropped on reconcile.
	stored, err := mr.Get("haircare_cart_items")
	require.NoError(t, err)
	assert.JSONEq(t, `[[3,2]]`, stored)

	rr := serve(t, a.Handler(), http.MethodPost, "/api/v1/widget/events", map[string]any{
		"type":       "add_to_cart",
		"product_id": 12,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	stored, err = mr.Get("haircare_cart_items")
	require.NoError(t, err)
	assert.JSONEq(t, `[[3,2],[12,1]]`, stored)

	rr = serve(t, a.Handler(), http.MethodGet, "/api/v1/widget/cart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Data domain.CartSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, 3, env.Data.TotalCount)
}

func TestNewApp_RedisCheckOnReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	a := newTestApp(t, map[string]string{"REDIS_ADDR": mr.Addr()})
	require.NoError(t, a.LoadCatalog(context.Background()))

	rr := serve(t, a.Handler(), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	mr.Close()

	rr = serve(t, a.Handler(), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg, err := config.LoadFrom(map[string]string{"REDIS_ADDR": addr})
	require.NoError(t, err)

	a, err := NewApp(cfg, logger.Discard())
	assert.Nil(t, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestLoadCatalog_FailureKeepsServing(t *testing.T) {
	a := newTestApp(t, map[string]string{
		"CART_STORE":   "memory",
		"CATALOG_FILE": filepath.Join(t.TempDir(), "missing.json"),
	})

	err := a.LoadCatalog(context.Background())
	require.Error(t, err)

	rr := serve(t, a.Handler(), http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = serve(t, a.Handler(), http.MethodGet, "/api/v1/widget/view", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"failed"`)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": 1, "name": "Argan Oil", "brand": "Moroccan", "category": "Hair Oil", "price": 450},
		{"id": 2, "name": "Mild Shampoo", "brand": "Himalaya", "category": "Shampoo", "price": 180}
	]`), 0o600))

	a := newTestApp(t, map[string]string{"CART_STORE": "memory", "CATALOG_FILE": path})
	require.NoError(t, a.LoadCatalog(context.Background()))

	rr := serve(t, a.Handler(), http.MethodGet, "/api/v1/widget/categories", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Data []domain.CategoryCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, 2, env.Data[0].Count)
}

func TestNewCatalogSource_Precedence(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want any
	}{
		{"url wins", config.Config{CatalogURL: "http://feed", CatalogFile: "/tmp/x.json"}, &catalog.HTTPSource{}},
		{"file", config.Config{CatalogFile: "/tmp/x.json"}, &catalog.FileSource{}},
		{"sample", config.Config{}, &catalog.StaticSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newCatalogSource(&tt.cfg, logger.Discard())
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestNewApp_KafkaSinkEnabled(t *testing.T) {
	a := newTestApp(t, map[string]string{
		"CART_STORE":    "memory",
		"KAFKA_BROKERS": "127.0.0.1:1",
	})

	assert.NotNil(t, a.producer)
}

func TestNewApp_KafkaSinkDisabledByDefault(t *testing.T) {
	a := newTestApp(t, map[string]string{"CART_STORE": "memory"})

	assert.Nil(t, a.producer)
}
