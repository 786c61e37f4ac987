package metrics

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), nil)
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestMetricNamesUseNamespaceAndSnakeCase(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	// Vec metrics only appear once a label set is used
	m.RecordHTTPRequest("GET", "/api/threads", 200, time.Millisecond)
	m.RecordDBQuery("select", "threads", time.Millisecond, nil)
	m.RecordNotification("hub", "thread", time.Millisecond, nil)
	m.RecordLikeToggle("thread", true)
	m.RecordSignIn("success")

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	for _, f := range families {
		name := f.GetName()
		assert.True(t, strings.HasPrefix(name, namespace+"_"), "metric %s must use namespace", name)
		assert.Equal(t, strings.ToLower(name), name, "metric %s must be snake_case", name)
		assert.NotEmpty(t, f.GetHelp(), "metric %s must have help text", name)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	m := getTestMetrics()

	m.RecordHTTPRequest("GET", "/api/thread/:threadId", 404, 10*time.Millisecond)
	m.RecordHTTPRequest("GET", "", 404, 10*time.Millisecond)

	assert.Equal(t, 1.0, getCounterValue(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/api/thread/:threadId", "4xx")))
	assert.Equal(t, 1.0, getCounterValue(t, m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "4xx")))
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{429, "4xx"},
		{500, "5xx"},
		{100, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorizeStatus(tt.code), "code %d", tt.code)
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	assert.True(t, ShouldSkipEndpoint("/metrics"))
	assert.True(t, ShouldSkipEndpoint("/health"))
	assert.True(t, ShouldSkipEndpoint("/api/ready"))
	assert.False(t, ShouldSkipEndpoint("/api/threads"))
}

func TestRecordDBQuery(t *testing.T) {
	m := getTestMetrics()

	m.RecordDBQuery("SELECT", "threads", time.Millisecond, nil)
	m.RecordDBQuery("update", "threads", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 0.0, getCounterValue(t, m.DBQueryErrors.WithLabelValues("select", "threads")))
	assert.Equal(t, 1.0, getCounterValue(t, m.DBQueryErrors.WithLabelValues("update", "threads")))
}

func TestUpdateDBStats(t *testing.T) {
	m := getTestMetrics()

	m.UpdateDBStats(sql.DBStats{
		MaxOpenConnections: 25,
		OpenConnections:    4,
		InUse:              3,
		Idle:               1,
		WaitCount:          7,
		WaitDuration:       2 * time.Second,
	})

	assert.Equal(t, 4.0, getGaugeValue(t, m.DBConnectionsOpen))
	assert.Equal(t, 3.0, getGaugeValue(t, m.DBConnectionsInUse))
	assert.Equal(t, 1.0, getGaugeValue(t, m.DBConnectionsIdle))
	assert.Equal(t, 25.0, getGaugeValue(t, m.DBConnectionsMax))
	assert.Equal(t, 7.0, getGaugeValue(t, m.DBConnectionWaitTotal))
	assert.Equal(t, 2.0, getGaugeValue(t, m.DBConnectionWaitDuration))

	// 잘못된 타입은 무시
	m.UpdateDBStats("not stats")
	assert.Equal(t, 4.0, getGaugeValue(t, m.DBConnectionsOpen))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		m.IncrementThreadCreated()
		m.RecordNotification("hub", "thread", time.Millisecond, nil)
		m.SetWebsocketClients(3)
	})
}
