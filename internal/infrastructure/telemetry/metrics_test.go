package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewMetrics()

	done := m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))

	m.ObserveRequest("GET", "/api/v1/memory/:id", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/memory/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	m.RecordCardSave("local", true)
	m.RecordCardSave("local", false)
	m.RecordCardSave("remote", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cardSaves.WithLabelValues("local", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cardSaves.WithLabelValues("remote", "ok")))

	m.RecordCheckout(true)
	m.RecordVerification("paid")
	m.RecordVerification("unpaid")
	m.RecordReturnReplay()
	m.RecordWebhookEvent("checkout.session.completed", true)
	m.ObserveDraftUsage(4096)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkouts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.returnReplays))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("checkout.session.completed", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RequestStarted()()
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.RecordCardSave("local", true)
		m.ObserveDraftUsage(1)
		m.RecordCheckout(false)
		m.RecordVerification("paid")
		m.RecordReturnReplay()
		m.RecordWebhookEvent("x", true)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordCheckout(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "memoriascard_payments_checkout_sessions_total")
	assert.Contains(t, string(body), "go_goroutines")
}
