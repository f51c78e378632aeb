package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
	"github.com/stretchr/testify/assert"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

func serve(h http.Handler, uid uint, role string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if uid != 0 {
		req = req.WithContext(middleware.WithIdentity(req.Context(), uid, role))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestHasRole(t *testing.T) {
	h := HasRole("Admin")(ok)
	assert.Equal(t, http.StatusUnauthorized, serve(h, 0, ""))
	assert.Equal(t, http.StatusForbidden, serve(h, 2, "User"))
	assert.Equal(t, http.StatusOK, serve(h, 1, "Admin"))
}

func TestGuest(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(Guest(ok), 0, ""))
	assert.Equal(t, http.StatusConflict, serve(Guest(ok), 5, "User"))
}
