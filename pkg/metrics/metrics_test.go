package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("parking", reg)

	m.ObserveHTTPRequest("GET", "/api/v1/spots/{spotId}/availability", 200, 10*time.Millisecond)
	m.ObserveAvailabilityQuery("exact", "ok", time.Millisecond)
	m.ObserveAvailabilityQuery("exact", "error", time.Millisecond)
	m.IncAvailabilityFallback("exact")
	m.SetFeedConnections(3)
	m.SetFeedCallbacks(7)
	m.AddFeedNotifications(2)
	m.IncFeedSubscribeErrors()
	m.StreamOpened()
	m.ObserveJobRun("rolling_refresh", nil)
	m.ObserveJobRun("rolling_refresh", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/spots/{spotId}/availability", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availabilityQueries.WithLabelValues("exact", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availabilityFallbacks.WithLabelValues("exact")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.feedConnections))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.feedCallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.feedNotifications))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedSubscribeErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.streamClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("rolling_refresh", "error")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveAvailabilityQuery("rolling", "ok", time.Millisecond)
		m.IncAvailabilityFallback("rolling")
		m.SetFeedConnections(1)
		m.SetFeedCallbacks(1)
		m.AddFeedNotifications(1)
		m.IncFeedSubscribeErrors()
		m.StreamOpened()
		m.StreamClosed()
		m.ObserveJobRun("x", nil)
	})
}
