// Package rbac gates routes on the role that middleware.Authenticate put in
// the request context.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
	"github.com/shashiranjanraj/pcbuilder/pkg/response"
)

// HasRole allows only callers holding one of roles. Anonymous callers get
// 401, authenticated callers with another role get 403.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest blocks callers that are already signed in (register, login).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
