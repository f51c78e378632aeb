package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	"github.com/shashiranjanraj/pcbuilder/pkg/lock"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
)

// Session keys shared by the build endpoints.
const (
	sessionActiveBuild = "active_build_id"
	flashMessage       = "message"
)

// fail maps a service error onto the response envelope. Anything it does not
// recognise is logged and answered with an opaque 500.
func fail(c *ctx.Context, err error) {
	var verr services.ValidationError

	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrUsernameTaken):
		c.ValidationError(map[string]string{"username": "The username has already been taken."})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrProductInUse):
		c.Error(http.StatusConflict, "This product is part of one or more builds and cannot be deleted.")
	case errors.Is(err, services.ErrCategoryInUse):
		c.Error(http.StatusConflict, "This category still has products and cannot be deleted.")
	case errors.Is(err, lock.ErrNotAcquired), errors.Is(err, context.DeadlineExceeded):
		c.Error(http.StatusServiceUnavailable, "The build is busy, please try again.")
	default:
		if tc, ok := services.IsTierConflict(err); ok {
			c.Error(http.StatusConflict, tc.Error())
			return
		}
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal server error")
	}
}

// caller returns the authenticated user ID. Routes using it sit behind
// RequireAuth, so a miss is answered as 401 and reported false.
func caller(c *ctx.Context) (uint, bool) {
	uid, ok := c.UserID()
	if !ok {
		c.Unauthorized()
	}
	return uid, ok
}

// pathID reads a positive integer path parameter, answering 404 otherwise.
func pathID(c *ctx.Context, name string) (uint, bool) {
	id, ok := c.ParamUint(name)
	if !ok {
		c.NotFound()
	}
	return id, ok
}
