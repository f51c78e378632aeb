// Package ctx gives handlers a single *Context instead of (w, r):
//
//	func (bc *BuildController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Success(build)
//	}
//
//	api.Get("/builds/{id}", "builds.show", ctx.Wrap(bc.Show))
//
// Every response helper saves the session first, so cookies set by the
// handler reach the client.
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/pcbuilder/pkg/bind"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
	"github.com/shashiranjanraj/pcbuilder/pkg/orm"
	"github.com/shashiranjanraj/pcbuilder/pkg/response"
	"github.com/shashiranjanraj/pcbuilder/pkg/session"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc for the router.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request ─────────────────────────────────────────────────────────────────

func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt parses a query-string integer, returning def when absent or bad.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryUint is QueryInt for IDs; zero means absent.
func (c *Context) QueryUint(key string) uint {
	n, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

func (c *Context) Context() context.Context { return c.R.Context() }

// UserID is the authenticated caller, set by middleware.Authenticate.
func (c *Context) UserID() (uint, bool) {
	return middleware.UserIDFromCtx(c.R)
}

func (c *Context) Session() *session.Session {
	return session.FromCtx(c.R)
}

// BindJSON decodes and validates the body. On failure it has already
// answered 400 or 422 and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.W, c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response ────────────────────────────────────────────────────────────────

func (c *Context) commitSession() {
	if err := session.FromCtx(c.R).Save(c.W); err != nil {
		logger.WithCtx(c.Context()).Error("session save failed", "error", err)
	}
}

func (c *Context) JSON(code int, v any) {
	c.commitSession()
	c.status = code
	response.JSON(c.W, code, v)
}

func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

// Message answers 200 with a user-facing message next to data.
func (c *Context) Message(message string, data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: message, Data: data})
}

func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

func (c *Context) Paginated(items any, p orm.Pagination) {
	c.Success(map[string]any{"items": items, "pagination": p})
}

func (c *Context) NoContent() {
	c.commitSession()
	c.status = http.StatusNoContent
	c.W.WriteHeader(http.StatusNoContent)
}

func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func (c *Context) Unauthorized() { c.Error(http.StatusUnauthorized, "Unauthorized") }
func (c *Context) Forbidden()    { c.Error(http.StatusForbidden, "Forbidden") }
func (c *Context) NotFound()     { c.Error(http.StatusNotFound, "Not found") }

// WrittenStatus is the status sent so far, 0 before any write.
func (c *Context) WrittenStatus() int { return c.status }
