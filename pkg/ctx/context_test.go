package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	appctx "github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	"github.com/shashiranjanraj/pcbuilder/pkg/response"
	"github.com/shashiranjanraj/pcbuilder/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	var ok bool
	r.Get("/builds/{id}", appctx.Wrap(func(c *appctx.Context) {
		got, ok = c.ParamUint("id")
		c.NoContent()
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/builds/42", nil))
	assert.True(t, ok)
	assert.Equal(t, uint(42), got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/builds/abc", nil))
	assert.False(t, ok)
}

func TestQueryHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&category_id=9&per_page=x", nil)
	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, 3, c.QueryInt("page", 1))
		assert.Equal(t, 20, c.QueryInt("per_page", 20))
		assert.Equal(t, uint(9), c.QueryUint("category_id"))
		assert.Zero(t, c.QueryUint("tier"))
		c.NoContent()
	})(rec, req)
}

func TestBindJSONWritesValidationError(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	appctx.Wrap(func(c *appctx.Context) {
		var v in
		assert.False(t, c.BindJSON(&v))
	})(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Validation failed", env.Message)
}

func TestMessageSavesSessionBeforeBody(t *testing.T) {
	cache.Flush()
	opts := session.Options{CookieName: "sid", TTL: time.Minute, Path: "/"}

	rec := httptest.NewRecorder()
	h := session.Middleware(opts)(appctx.Wrap(func(c *appctx.Context) {
		c.Session().Set("active_build_id", uint(5))
		c.Message("Now building: Gaming", nil)
	}))
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), "Now building: Gaming")
}
