package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yiconnect/backend/internal/middleware"
	"github.com/yiconnect/backend/internal/pkg/push"
)

// NotificationController upgrades clients to the notification stream
type NotificationController struct {
	hub    *push.Hub
	logger zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(hub *push.Hub, logger zerolog.Logger) *NotificationController {
	return &NotificationController{hub: hub, logger: logger}
}

// Subscribe opens a WebSocket connection delivering the caller's
// notifications in real time.
func (c *NotificationController) Subscribe(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if err := push.ServeWS(c.hub, ctx.Writer, ctx.Request, userID, c.logger); err != nil {
		// Upgrade failures already wrote the HTTP response
		return
	}
}
