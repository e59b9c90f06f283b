package database

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats struct {
	stats redis.PoolStats
}

func (f fixedStats) PoolStats() *redis.PoolStats { return &f.stats }

func TestPoolStatsCollector_Describe(t *testing.T) {
	c := NewPoolStatsCollector(fixedStats{}, "test-service")

	ch := make(chan *prometheus.Desc, 10)
	c.Describe(ch)
	close(ch)

	descs := make([]*prometheus.Desc, 0, 10)
	for d := range ch {
		descs = append(descs, d)
	}
	assert.Len(t, descs, 6)
}

func TestPoolStatsCollector_CollectsValues(t *testing.T) {
	c := NewPoolStatsCollector(fixedStats{stats: redis.PoolStats{
		Hits: 7, Misses: 2, TotalConns: 3, IdleConns: 1,
	}}, "catalog-widget")

	expected := `
# HELP redis_pool_hits_total Number of times a free connection was found in the pool
# TYPE redis_pool_hits_total counter
redis_pool_hits_total{service="catalog-widget"} 7
# HELP redis_pool_total_connections Total number of connections in the pool
# TYPE redis_pool_total_connections gauge
redis_pool_total_connections{service="catalog-widget"} 3
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"redis_pool_hits_total", "redis_pool_total_connections")
	require.NoError(t, err)
}

func TestPoolStatsCollector_RealClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	c := NewPoolStatsCollector(client, "catalog-widget")
	assert.Equal(t, 6, testutil.CollectAndCount(c))
}

func TestRegisterPoolMetrics_DuplicateFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterPoolMetrics(reg, fixedStats{}, "catalog-widget"))
	assert.Error(t, RegisterPoolMetrics(reg, fixedStats{}, "catalog-widget"))
}
