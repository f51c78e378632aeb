package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpts() Options {
	return Options{CookieName: "sid", TTL: time.Minute, HTTPOnly: true, Path: "/"}
}

// roundTrip runs h behind the middleware, sending cookie when non-nil.
func roundTrip(t *testing.T, h http.HandlerFunc, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	Middleware(testOpts())(h).ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	cache.Flush()

	rec := roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Set("active_build_id", uint(42))
		require.NoError(t, s.Save(w))
	}, nil)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	var got uint
	roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromCtx(r).GetUint("active_build_id")
	}, cookie)
	assert.Equal(t, uint(42), got)
}

func TestUnknownCookieGetsFreshID(t *testing.T) {
	cache.Flush()

	var id string
	roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
		id = FromCtx(r).ID()
	}, &http.Cookie{Name: "sid", Value: "attacker-chosen"})
	assert.NotEqual(t, "attacker-chosen", id)
}

func TestFlashIsReadOnce(t *testing.T) {
	s := &Session{data: map[string]interface{}{}}
	s.Flash("message", "Now building: Gaming")

	v, ok := s.GetFlash("message")
	assert.True(t, ok)
	assert.Equal(t, "Now building: Gaming", v)

	_, ok = s.GetFlash("message")
	assert.False(t, ok)
}

func TestInvalidateRotatesID(t *testing.T) {
	cache.Flush()

	rec := roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Set("user_id", uint(1))
		require.NoError(t, s.Save(w))
	}, nil)
	first := sessionCookie(rec)

	rec = roundTrip(t, func(w http.ResponseWriter, r *http.Request) {
		s := FromCtx(r)
		s.Invalidate()
		require.NoError(t, s.Save(w))
	}, first)
	second := sessionCookie(rec)

	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)

	var data map[string]interface{}
	assert.False(t, cache.Get(t.Context(), storeKey(first.Value), &data))
}

func TestGetUint(t *testing.T) {
	s := &Session{data: map[string]interface{}{
		"f": float64(7), "s": "9", "neg": float64(-1), "bad": "x",
	}}

	v, ok := s.GetUint("f")
	assert.True(t, ok)
	assert.Equal(t, uint(7), v)

	v, ok = s.GetUint("s")
	assert.True(t, ok)
	assert.Equal(t, uint(9), v)

	_, ok = s.GetUint("neg")
	assert.False(t, ok)
	_, ok = s.GetUint("bad")
	assert.False(t, ok)
	_, ok = s.GetUint("missing")
	assert.False(t, ok)
}
