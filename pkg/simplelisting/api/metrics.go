package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for a listing server. It also
// satisfies the recorder MetricsHooks expects, so build events land in
// the same registry as the HTTP metrics.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	buildEvents     *prometheus.CounterVec
	buildValues     *prometheus.HistogramVec
}

// NewMetrics creates metrics registered on the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith creates metrics registered on the given registry.
// Tests use this with a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		buildEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "listing",
				Name:      "events_total",
				Help:      "Listing build events by name",
			},
			[]string{"event"},
		),
		buildValues: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "listing",
				Name:      "event_values",
				Help:      "Listing build event values by name",
				Buckets:   prometheus.LinearBuckets(0, 2, 11),
			},
			[]string{"event"},
		),
	}
}

// IncrementCounter records a named build event.
func (m *Metrics) IncrementCounter(name string) {
	m.buildEvents.WithLabelValues(name).Inc()
}

// RecordValue records a named build measurement.
func (m *Metrics) RecordValue(name string, value int64) {
	m.buildValues.WithLabelValues(name).Observe(float64(value))
}

// Middleware instruments requests with count and duration metrics. The
// path label uses the chi route pattern to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
