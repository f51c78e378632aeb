package server

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/pcbuilder/app/routes"
	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/shashiranjanraj/pcbuilder/pkg/metrics"
	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
	"github.com/shashiranjanraj/pcbuilder/pkg/reqid"
	"github.com/shashiranjanraj/pcbuilder/pkg/response"
	"github.com/shashiranjanraj/pcbuilder/pkg/router"
	"github.com/shashiranjanraj/pcbuilder/pkg/session"
)

// NewRouter builds the router with the global middleware stack and every
// route mounted. Order, outermost first:
//
//	metrics, recovery, request id, logger, session, cors, rate limit, authenticate
func NewRouter() (*router.Router, error) {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))
	r.Use(middleware.Authenticate)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if err := routes.RegisterAPI(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Handler is NewRouter's http.Handler.
func Handler() (http.Handler, error) {
	r, err := NewRouter()
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}
