// Package session keeps per-client state behind a random cookie ID. The data
// map lives in pkg/cache (Redis when connected, in-process otherwise) under
// pcbuilder:session:<id>.
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
//	sess := session.FromCtx(r)
//	sess.Set("active_build_id", build.ID)
//	_ = sess.Save(w) // before the body is written
package session

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
)

const flashPrefix = "_flash_"

type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads TTL and the Secure flag from config.
func DefaultOptions() Options {
	return Options{
		CookieName: "pcbuilder_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.SessionSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is the per-request handle. It is not safe for concurrent use; one
// request owns it.
type Session struct {
	ctx     context.Context
	id      string
	oldID   string
	data    map[string]interface{}
	opts    Options
	changed bool
}

func storeKey(id string) string { return "pcbuilder:session:" + id }

func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetUint reads an ID. Values round-trip through JSON, so numbers come back
// as float64; strings of digits are accepted too.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n < 1 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, n > 0
	case int:
		if n < 1 {
			return 0, false
		}
		return uint(n), true
	case string:
		u, err := strconv.ParseUint(n, 10, 64)
		if err != nil || u == 0 {
			return 0, false
		}
		return uint(u), true
	}
	return 0, false
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.changed = true
}

// Flash stores a message that is removed by the first GetFlash.
func (s *Session) Flash(key string, value interface{}) {
	s.Set(flashPrefix+key, value)
}

func (s *Session) GetFlash(key string) (interface{}, bool) {
	v, ok := s.Get(flashPrefix + key)
	if ok {
		s.Delete(flashPrefix + key)
	}
	return v, ok
}

// Regenerate moves the data to a fresh ID. Call it on login.
func (s *Session) Regenerate() {
	if s.oldID == "" {
		s.oldID = s.id
	}
	s.id = uuid.NewString()
	s.changed = true
}

// Invalidate clears the data and rotates the ID (logout).
func (s *Session) Invalidate() {
	s.data = map[string]interface{}{}
	s.Regenerate()
}

func (s *Session) ID() string { return s.id }

// Save persists changed data and (re)writes the cookie. It is a no-op when
// nothing changed.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	if s.oldID != "" {
		_ = cache.Forget(s.ctx, storeKey(s.oldID))
		s.oldID = ""
	}

	if err := cache.Set(s.ctx, storeKey(s.id), s.data, s.opts.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(s.opts.TTL.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})

	s.changed = false
	return nil
}

// Middleware loads the session named by the cookie, or starts an empty one,
// and puts it in the request context. An unknown or expired cookie ID gets a
// new ID so a client cannot choose its own.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{ctx: r.Context(), opts: opts, data: map[string]interface{}{}}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				var data map[string]interface{}
				if cache.Get(r.Context(), storeKey(cookie.Value), &data) {
					sess.id = cookie.Value
					sess.data = data
				}
			}
			if sess.id == "" {
				sess.id = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx returns the request's session, or a detached empty one when the
// middleware did not run.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	return &Session{ctx: r.Context(), id: uuid.NewString(), data: map[string]interface{}{}, opts: DefaultOptions()}
}
