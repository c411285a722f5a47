package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/pkg/event"
	"github.com/glowmart/glowmart/pkg/logger"
	"github.com/glowmart/glowmart/pkg/ws"
)

// FeedController pushes placed orders to connected admin dashboards over
// a websocket. Clients authenticate like any other admin route; the auth
// middleware also accepts ?token= for websocket handshakes.
type FeedController struct {
	hub *ws.Hub
}

// NewFeedController starts the hub and subscribes it to placed orders.
func NewFeedController() *FeedController {
	hub := ws.NewHub()
	go hub.Run()

	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		msg, err := json.Marshal(map[string]interface{}{
			"event": "order.placed",
			"order": order,
		})
		if err != nil {
			logger.Error("feed: marshal order", "error", err)
			return
		}
		hub.Broadcast <- msg
	})

	return &FeedController{hub: hub}
}

// Orders upgrades the connection and subscribes it to the live feed.
func (c *FeedController) Orders(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}
