package controllers

import (
	"github.com/shashiranjanraj/pcbuilder/app/resources"
	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	"github.com/shashiranjanraj/pcbuilder/pkg/middleware"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := ac.service.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.User(user))
}

// Login handles POST /api/auth/login. The session carries the identity for
// browser clients; the token is for API clients.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.service.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	sess := c.Session()
	sess.Regenerate()
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionRole, user.Role)

	c.Success(map[string]interface{}{
		"user":     resources.User(user),
		"token":    token,
		"redirect": services.RedirectFor(user),
	})
}

// Logout handles POST /api/auth/logout.
func (ac *AuthController) Logout(c *ctx.Context) {
	c.Session().Invalidate()
	c.Message("Logged out", nil)
}

// Me handles GET /api/auth/me.
func (ac *AuthController) Me(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	user, err := ac.service.Me(c.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.User(user))
}
