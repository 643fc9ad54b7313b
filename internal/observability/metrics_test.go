package observability_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parking-zone-service/internal/observability"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := observability.NewMetricsForTesting()
	b := observability.NewMetricsForTesting()

	a.Correlations.WithLabelValues("kdtree", "matched").Add(3)
	a.SchedulesEmitted.Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.Correlations.WithLabelValues("kdtree", "matched")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Correlations.WithLabelValues("kdtree", "matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.SchedulesEmitted))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetricsForTesting()
	m.SchedulesDropped.WithLabelValues("low_confidence").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `zone_service_schedules_dropped_total{reason="low_confidence"} 1`)
}
