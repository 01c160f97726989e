package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDB(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "practice")

	m.ObserveDB("users.create", time.Now(), nil)
	m.ObserveDB("users.create", time.Now(), errors.New("duplicate"))
	m.ObserveDB("users.create", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("users.create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("users.create", "error")))
}

func TestObserveCache(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry(), "practice")

	m.ObserveCache("memory", true)
	m.ObserveCache("memory", false)
	m.ObserveCache("memory", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("memory", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("memory", "miss")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDB("x", time.Now(), nil)
		m.ObserveCache("memory", true)
	})
}
