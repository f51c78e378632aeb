// Package middleware holds the HTTP middleware the server kernel stacks in
// front of every route.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/pcbuilder/pkg/auth"
	"github.com/shashiranjanraj/pcbuilder/pkg/response"
	"github.com/shashiranjanraj/pcbuilder/pkg/session"
)

// Session keys written on login.
const (
	SessionUserID = "user_id"
	SessionRole   = "role"
)

type identityKey struct{}

type identity struct {
	userID uint
	role   string
}

// WithIdentity stores the acting user in ctx.
func WithIdentity(ctx context.Context, userID uint, role string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{userID: userID, role: role})
}

func identityFrom(ctx context.Context) (identity, bool) {
	id, ok := ctx.Value(identityKey{}).(identity)
	return id, ok && id.userID != 0
}

// UserID returns the authenticated user's ID from ctx.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := identityFrom(ctx)
	return id.userID, ok
}

func UserIDFromCtx(r *http.Request) (uint, bool) { return UserID(r.Context()) }

func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := identityFrom(r.Context())
	return id.role, ok
}

// Authenticate resolves the caller from a Bearer token, falling back to the
// session. It never rejects; an invalid token is treated as anonymous.
// Session middleware must run first.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			if claims, err := auth.ValidateToken(strings.TrimPrefix(h, "Bearer ")); err == nil && claims.UserID != 0 {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.UserID, claims.Role)))
				return
			}
		}

		sess := session.FromCtx(r)
		if uid, ok := sess.GetUint(SessionUserID); ok {
			role, _ := sess.GetString(SessionRole)
			r = r.WithContext(WithIdentity(r.Context(), uid, role))
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth answers 401 when Authenticate found nobody.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromCtx(r); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
