package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/itinerary-planner/backend/internal/middleware"
)

func newMetricsRouter(t *testing.T) (*prometheus.Registry, http.Handler) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/itineraries/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/itineraries/generate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	return reg, r
}

func TestMetrics_CountsByRoutePattern(t *testing.T) {
	reg, h := newMetricsRouter(t)

	for _, id := range []string{"a", "b", "c"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/itineraries/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/itineraries/generate", nil))

	// Three distinct ids collapse into one series.
	count, err := testutil.GatherAndCount(reg, "itinerary_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_ImplicitOKStatus(t *testing.T) {
	reg, h := newMetricsRouter(t)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/itineraries/generate", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "itinerary_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/itineraries/generate" {
				found = true
				assert.Equal(t, "200", labels["status"])
				assert.Equal(t, "POST", labels["method"])
				assert.Equal(t, 1.0, metric.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found, "expected a series for /itineraries/generate")
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	reg, h := newMetricsRouter(t)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	count, err := testutil.GatherAndCount(reg, "itinerary_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
