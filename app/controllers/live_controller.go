package controllers

import (
	"github.com/shashiranjanraj/pcbuilder/pkg/ctx"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/ws"
)

// LiveController upgrades to the caller's build event feed.
type LiveController struct {
	hub *ws.Hub
}

func NewLiveController(hub *ws.Hub) *LiveController {
	return &LiveController{hub: hub}
}

// Stream handles GET /api/builds/live.
func (lc *LiveController) Stream(c *ctx.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	if err := ws.Upgrade(c.W, c.R, lc.hub, uid); err != nil {
		// The upgrader has already answered the client.
		logger.WithCtx(c.Context()).Warn("live feed upgrade failed", "user_id", uid, "error", err)
	}
}
