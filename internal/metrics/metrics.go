package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load outcomes
const (
	OutcomeLoaded   = "loaded"
	OutcomeFallback = "fallback"
)

// Metrics collects service metrics on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	regionLoads       *prometheus.CounterVec
	regionReadings    *prometheus.GaugeVec
	regionFallback    *prometheus.GaugeVec
	projections       *prometheus.CounterVec
	snapshots         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		regionLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "region_loads_total",
			Help: "Region series loads by outcome (loaded or fallback).",
		}, []string{"outcome"}),
		regionReadings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "region_series_readings",
			Help: "Number of readings in each region's loaded series.",
		}, []string{"region"}),
		regionFallback: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "region_fallback_active",
			Help: "1 when a region is serving synthetic fallback data.",
		}, []string{"region"}),
		projections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projections_computed_total",
			Help: "Active projection recomputations by timeframe mode (construction, mode switch, Hourly re-anchor).",
		}, []string{"mode"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_snapshots_total",
			Help: "Dashboard snapshot renders by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.regionLoads,
		m.regionReadings,
		m.regionFallback,
		m.projections,
		m.snapshots,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request counts and latency under a fixed route label
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RegionLoaded(region string, readings int, fallback bool) {
	if m == nil {
		return
	}
	outcome, active := OutcomeLoaded, 0.0
	if fallback {
		outcome, active = OutcomeFallback, 1
	}
	m.regionLoads.WithLabelValues(outcome).Inc()
	m.regionReadings.WithLabelValues(region).Set(float64(readings))
	m.regionFallback.WithLabelValues(region).Set(active)
}

func (m *Metrics) ProjectionComputed(mode string) {
	if m == nil {
		return
	}
	m.projections.WithLabelValues(mode).Inc()
}

func (m *Metrics) SnapshotRendered(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.snapshots.WithLabelValues(result).Inc()
}
