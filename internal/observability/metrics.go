// Package observability exposes Prometheus metrics for the HTTP surface and
// for write contention in the service layer.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travel_planner"

// Metrics is a prometheus.Collector. It also implements
// service.ConflictRecorder.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	writeRetries   *prometheus.CounterVec
	writeConflicts *prometheus.CounterVec
}

// NewMetrics returns an unregistered Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by route pattern and status.",
			}, []string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Time taken to serve HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route"},
		),
		writeRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "write_retries_total",
				Help:      "Versioned writes retried after finding a newer version.",
			}, []string{"kind"},
		),
		writeConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "write_conflicts_total",
				Help:      "Versioned writes abandoned after exhausting retries.",
			}, []string{"kind"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.requests.Describe(ch)
	m.duration.Describe(ch)
	m.writeRetries.Describe(ch)
	m.writeConflicts.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.requests.Collect(ch)
	m.duration.Collect(ch)
	m.writeRetries.Collect(ch)
	m.writeConflicts.Collect(ch)
}

func (m *Metrics) WriteRetried(kind string)  { m.writeRetries.WithLabelValues(kind).Inc() }
func (m *Metrics) WriteConflict(kind string) { m.writeConflicts.WithLabelValues(kind).Inc() }

// Instrument records every request under its chi route pattern, so
// /trips/{tripId} is one series regardless of the id. Requests that match
// no route are recorded as "unmatched".
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler registers m together with the Go runtime and process collectors
// on a fresh registry and serves it in the Prometheus text format.
func Handler(m *Metrics) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		m,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
