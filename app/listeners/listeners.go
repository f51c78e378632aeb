// Package listeners turns build events into metrics, log lines and pushes on
// the owner's live feed.
package listeners

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/event"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/metrics"
	"github.com/shashiranjanraj/pcbuilder/pkg/ws"
)

// Live carries build events to the owner's open WebSocket connections.
// server.Start runs its loop.
var Live = ws.NewHub()

var once sync.Once

// Register wires the listeners once per process.
func Register() {
	once.Do(register)
}

func register() {
	event.Listen(services.EventItemAdded, onItemAdded)
	event.Listen(services.EventTierConflict, onTierConflict)
	event.Listen(services.EventBuildDeleted, onBuildDeleted)
}

// liveEvent is the frame pushed to /api/builds/live.
type liveEvent struct {
	Event     string `json:"event"`
	BuildID   uint   `json:"build_id"`
	ProductID uint   `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Message   string `json:"message,omitempty"`
}

func push(ctx context.Context, userID uint, e liveEvent) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.WithCtx(ctx).Error("live event encode failed", "event", e.Event, "error", err)
		return
	}
	Live.Publish(userID, data)
}

func onItemAdded(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.ItemAdded)
	if !ok {
		return
	}
	metrics.BuildItemsAdded.Inc()
	logger.WithCtx(ctx).Info("build item added",
		"build_id", e.BuildID, "user_id", e.UserID, "product_id", e.ProductID, "quantity", e.Quantity)
	push(ctx, e.UserID, liveEvent{
		Event: services.EventItemAdded, BuildID: e.BuildID, ProductID: e.ProductID, Quantity: e.Quantity,
	})
}

func onTierConflict(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.TierConflict)
	if !ok || e.Conflict == nil {
		return
	}
	metrics.TierConflicts.WithLabelValues(e.Conflict.Pairing()).Inc()
	logger.WithCtx(ctx).Warn("tier conflict",
		"build_id", e.BuildID, "user_id", e.UserID, "product_id", e.ProductID, "pairing", e.Conflict.Pairing())
	push(ctx, e.UserID, liveEvent{
		Event: services.EventTierConflict, BuildID: e.BuildID, ProductID: e.ProductID, Message: e.Conflict.Error(),
	})
}

func onBuildDeleted(ctx context.Context, payload interface{}) {
	e, ok := payload.(services.BuildDeleted)
	if !ok {
		return
	}
	metrics.BuildsDeleted.Inc()
	logger.WithCtx(ctx).Info("build deleted", "build_id", e.BuildID, "user_id", e.UserID)
	push(ctx, e.UserID, liveEvent{Event: services.EventBuildDeleted, BuildID: e.BuildID})
}
