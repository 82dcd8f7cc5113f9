package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/areas", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/api/v1/areas", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/v1/encargados/:id", "DELETE", "CONFLICT")
	m.RecordRejection("manager", "assigned_to_department")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/areas", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/v1/encargados/:id", "DELETE", "CONFLICT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("manager", "assigned_to_department")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordRejection("area", "x")
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordRejection("department", "has_employees")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `directory_reference_rejections_total{entity="department",reason="has_employees"} 1`)
}

func TestIndependentRegistries(t *testing.T) {
	require.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
