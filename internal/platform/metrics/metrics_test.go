package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecording(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/items", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/items", http.StatusOK, 30*time.Millisecond)
	m.RestockRecorded("frontroom")
	m.SubscriberAdded()
	m.SubscriberAdded()
	m.SubscriberRemoved()
	m.ListenerReconnected()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/items", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.restocks.WithLabelValues("frontroom")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.restocks.WithLabelValues("gachapon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscribers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listenerReconnects))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.RestockRecorded("gachapon")
		m.SubscriberAdded()
		m.SubscriberRemoved()
		m.ListenerReconnected()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.RestockRecorded("gachapon")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `magicshop_restocks_total{surface="gachapon"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
