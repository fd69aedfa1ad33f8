package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "memoriascard"

// Metrics holds the Prometheus collectors of the service on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	cardSaves     *prometheus.CounterVec
	draftUsage    prometheus.Histogram
	checkouts     *prometheus.CounterVec
	verifications *prometheus.CounterVec
	returnReplays prometheus.Counter
	webhookEvents *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors. Go runtime and process
// collectors are included.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		cardSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cards",
			Name:      "saves_total",
			Help:      "Card saves by store (local, remote) and result.",
		}, []string{"store", "result"}),
		draftUsage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cards",
			Name:      "draft_collection_bytes",
			Help:      "Serialized size of a user's draft collection after a save.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "payments",
			Name:      "checkout_sessions_total",
			Help:      "Checkout sessions requested, by result.",
		}, []string{"result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "payments",
			Name:      "verifications_total",
			Help:      "Payment verifications by processor status.",
		}, []string{"status"}),
		returnReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "payments",
			Name:      "return_replays_total",
			Help:      "Checkout returns answered from the return ledger.",
		}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "payments",
			Name:      "webhook_events_total",
			Help:      "Stripe webhook events by type and result.",
		}, []string{"type", "result"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.cardSaves,
		m.draftUsage,
		m.checkouts,
		m.verifications,
		m.returnReplays,
		m.webhookEvents,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) RequestStarted() func() {
	if m == nil {
		return func() {}
	}
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordCardSave counts a card save against the local or remote store.
func (m *Metrics) RecordCardSave(store string, ok bool) {
	if m == nil {
		return
	}
	m.cardSaves.WithLabelValues(store, resultLabel(ok)).Inc()
}

// ObserveDraftUsage records the size of a draft collection in bytes.
func (m *Metrics) ObserveDraftUsage(bytes int) {
	if m == nil {
		return
	}
	m.draftUsage.Observe(float64(bytes))
}

// RecordCheckout counts a checkout session request.
func (m *Metrics) RecordCheckout(ok bool) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(resultLabel(ok)).Inc()
}

// RecordVerification counts a verification by processor status, or "error".
func (m *Metrics) RecordVerification(status string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(status).Inc()
}

// RecordReturnReplay counts a checkout return answered from the ledger.
func (m *Metrics) RecordReturnReplay() {
	if m == nil {
		return
	}
	m.returnReplays.Inc()
}

// RecordWebhookEvent counts a processed webhook event.
func (m *Metrics) RecordWebhookEvent(eventType string, ok bool) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
