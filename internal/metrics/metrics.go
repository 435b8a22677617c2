package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kinesio"

// CalendarMetrics counts how calendar refreshes end. It implements calendar.Observer.
type CalendarMetrics struct {
	swaps        *prometheus.CounterVec
	stale        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	indexedTotal *prometheus.HistogramVec
}

func NewCalendarMetrics(reg prometheus.Registerer) *CalendarMetrics {
	m := &CalendarMetrics{
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "index_swaps_total",
			Help:      "Calendar indexes published after a successful fetch",
		}, []string{"granularity"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "stale_responses_total",
			Help:      "Fetch results dropped because a newer request superseded them",
		}, []string{"granularity"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "fetch_failures_total",
			Help:      "Failed calendar fetches",
		}, []string{"granularity"}),
		indexedTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "indexed_events",
			Help:      "Events per published calendar index",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250},
		}, []string{"granularity"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.swaps, m.stale, m.failures, m.indexedTotal)
	return m
}

func (m *CalendarMetrics) IndexSwapped(g calendar.Granularity, events int) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(string(g)).Inc()
	m.indexedTotal.WithLabelValues(string(g)).Observe(float64(events))
}

func (m *CalendarMetrics) StaleDiscarded(g calendar.Granularity) {
	if m == nil {
		return
	}
	m.stale.WithLabelValues(string(g)).Inc()
}

func (m *CalendarMetrics) FetchFailed(g calendar.Granularity) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(g)).Inc()
}

// HTTPMetrics instruments the API router.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// Middleware records every request under its chi route pattern.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
