package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeyKozhin/kinesio-crm/internal/calendar"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCalendarMetrics(t *testing.T) {
	m := NewCalendarMetrics(prometheus.NewRegistry())

	var observer calendar.Observer = m
	observer.IndexSwapped(calendar.GranularityMonth, 12)
	observer.IndexSwapped(calendar.GranularityMonth, 3)
	observer.StaleDiscarded(calendar.GranularityWeek)
	observer.FetchFailed(calendar.GranularityDay)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.swaps.WithLabelValues("month")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stale.WithLabelValues("week")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("day")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *CalendarMetrics
	assert.NotPanics(t, func() {
		m.IndexSwapped(calendar.GranularityMonth, 1)
		m.StaleDiscarded(calendar.GranularityMonth)
		m.FetchFailed(calendar.GranularityMonth)
	})

	var h *HTTPMetrics
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, h.Middleware(next))
}

func TestHTTPMiddlewareUsesRoutePattern(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())

	r := chi.NewMux()
	r.Use(m.Middleware)
	r.Get("/clients/{clientID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/clients/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/clients/{clientID}", "404")))
}
