package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsChainMiddlewareInOrder(t *testing.T) {
	r := New()
	api := r.Group("/api", tag("api"))
	builds := api.Group("builds", tag("builds"))
	builds.Patch("/items/{itemID}", "builds.items.update", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/builds/items/3", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "builds", "route"}, rec.Header().Values("X-Chain"))
}

func TestURL(t *testing.T) {
	r := New()
	r.Group("/api").Get("/builds/{id}", "builds.show", func(http.ResponseWriter, *http.Request) {})

	u, err := r.URL("builds.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/builds/7", u)

	_, err = r.URL("builds.show", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := New()
	g := r.Group("/api")
	noop := func(http.ResponseWriter, *http.Request) {}
	g.Post("/builds", "builds.store", noop)
	g.Get("/builds", "builds.index", noop)
	g.Delete("/builds/{id}", "builds.destroy", noop)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, Route{Method: "GET", Path: "/api/builds", Name: "builds.index"}, routes[0])
	assert.Equal(t, "POST", routes[1].Method)
	assert.Equal(t, "/api/builds/{id}", routes[2].Path)
}
