package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/internal/testutil"
	"github.com/shashiranjanraj/pcbuilder/pkg/reqid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouterNamesEveryRoute(t *testing.T) {
	r, err := NewRouter()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, ri := range r.Routes() {
		names[ri.Name] = true
	}
	for _, want := range []string{
		"auth.login", "products.index", "categories.products", "admin.products.store",
		"builds.items.add", "builds.activate", "graphql", "metrics",
	} {
		assert.True(t, names[want], want)
	}

	path, ok := r.Path("builds.items.update")
	require.True(t, ok)
	assert.Equal(t, "/api/builds/items/{itemID}", path)
}

func TestHandlerStack(t *testing.T) {
	testutil.DB(t)
	h, err := Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Not found"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pcbuilder_http_requests_total")
}

func TestBearerTokenAuthenticates(t *testing.T) {
	db := testutil.DB(t)
	testutil.User(t, db, "tokenuser", "User")
	h, err := Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	login := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"tokenuser","password":"secret123"}`))
	h.ServeHTTP(rec, login)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token := between(rec.Body.String(), `"token":"`, `"`)
	require.NotEmpty(t, token)

	rec = httptest.NewRecorder()
	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(rec, me)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tokenuser")
}

func between(s, open, close string) string {
	i := strings.Index(s, open)
	if i < 0 {
		return ""
	}
	s = s[i+len(open):]
	j := strings.Index(s, close)
	if j < 0 {
		return ""
	}
	return s[:j]
}
