package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/addrlens/metrics"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordNameLookup("ens", "ok")
		m.RecordCacheLookup("address", "hit")
		m.RecordStale("resolution")
		m.RecordCodeBatch(3)
		m.RecordBackendCall("sourcify-full", "found")
		m.RecordReplacement()
		m.ObserveStage("metadata", time.Now())
	})
	assert.Nil(t, m.Registry())
}

func TestCountersAccumulate(t *testing.T) {
	m := metrics.New("")
	m.RecordBackendCall("etherscan", "found")
	m.RecordBackendCall("etherscan", "found")
	m.RecordCodeBatch(4)
	m.RecordStale("code")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackendCalls.WithLabelValues("etherscan", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CodeBatches))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CodeAddresses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResults.WithLabelValues("code")))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := metrics.New("lens")
	m.RecordReplacement()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lens_navigation_location_replacements_total 1")
}
