package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Estimate kinds used as metric labels.
const (
	KindSolar      = "solar"
	KindDataCenter = "datacenter"
	KindArea       = "area"
	KindAFZ        = "afz"
)

// Metrics owns a private registry so several routers can coexist in tests.
type Metrics struct {
	registry       *prometheus.Registry
	estimates      *prometheus.CounterVec
	estimateErrors *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	lookups        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteintel_estimates_total",
			Help: "Total estimates computed by kind.",
		}, []string{"kind"}),
		estimateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteintel_estimate_errors_total",
			Help: "Total rejected estimate requests by kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteintel_http_requests_total",
			Help: "Total HTTP requests by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "siteintel_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteintel_record_lookups_total",
			Help: "Total external record lookups by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.estimates,
		m.estimateErrors,
		m.httpRequests,
		m.httpDuration,
		m.lookups,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and latency under route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequests.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Estimate(kind string) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(kind).Inc()
}

func (m *Metrics) EstimateError(kind string) {
	if m == nil {
		return
	}
	m.estimateErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) Lookup(success bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	m.lookups.WithLabelValues(outcome).Inc()
}
