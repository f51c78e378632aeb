package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/builds/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/builds/991", nil))

	body := scrape(t)
	assert.Contains(t, body, `route="/api/builds/{id}"`)
	assert.NotContains(t, body, "/api/builds/991")
}

func TestHandlerExposesDomainCounters(t *testing.T) {
	TierConflicts.WithLabelValues("1-3").Inc()
	assert.Contains(t, scrape(t), `pcbuilder_builds_tier_conflicts_total{pairing="1-3"}`)
}
