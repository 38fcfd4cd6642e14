// Package metrics provides Prometheus metrics for the marketing admin API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	leadsCreated     prometheus.Counter
	leadsConverted   prometheus.Counter
	campaignsSent    prometheus.Counter
	dispatchFailures *prometheus.CounterVec
	auditEntries     prometheus.Counter
	cacheLookups     *prometheus.CounterVec
}

// New registers every metric on reg. Pass a fresh registry per process (or per test).
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketing_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketing_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "marketing_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		leadsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "marketing_leads_created_total",
			Help: "Leads submitted through the intake form",
		}),
		leadsConverted: f.NewCounter(prometheus.CounterOpts{
			Name: "marketing_leads_converted_total",
			Help: "Leads moved to converted via the convert action",
		}),
		campaignsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "marketing_campaigns_sent_total",
			Help: "Campaigns marked sent",
		}),
		dispatchFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketing_campaign_dispatch_failures_total",
				Help: "Failed deliveries of sent campaigns, by driver",
			},
			[]string{"driver"},
		),
		auditEntries: f.NewCounter(prometheus.CounterOpts{
			Name: "marketing_audit_entries_total",
			Help: "Audit log entries written",
		}),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketing_page_cache_lookups_total",
				Help: "Page cache lookups, by result (hit, miss, error)",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) IncRequestsInFlight() {
	if m != nil {
		m.requestsInFlight.Inc()
	}
}

func (m *Metrics) DecRequestsInFlight() {
	if m != nil {
		m.requestsInFlight.Dec()
	}
}

func (m *Metrics) LeadCreated() {
	if m != nil {
		m.leadsCreated.Inc()
	}
}

func (m *Metrics) LeadConverted() {
	if m != nil {
		m.leadsConverted.Inc()
	}
}

func (m *Metrics) CampaignSent() {
	if m != nil {
		m.campaignsSent.Inc()
	}
}

func (m *Metrics) DispatchFailed(driver string) {
	if m != nil {
		m.dispatchFailures.WithLabelValues(driver).Inc()
	}
}

func (m *Metrics) AuditRecorded() {
	if m != nil {
		m.auditEntries.Inc()
	}
}

// CacheLookup result is one of "hit", "miss", "error".
func (m *Metrics) CacheLookup(result string) {
	if m != nil {
		m.cacheLookups.WithLabelValues(result).Inc()
	}
}

// Middleware records request count, latency and in-flight gauge. route maps a
// request to a low-cardinality label (the matched path template).
func Middleware(m *Metrics, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.IncRequestsInFlight()
			defer m.DecRequestsInFlight()

			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.RecordHTTPRequest(r.Method, route(r), rw.statusCode, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
