package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	service    services.NotificationService
	subscriber events.EventSubscriber
}

func NewNotificationHandler(service services.NotificationService, subscriber events.EventSubscriber, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		subscriber:  subscriber,
	}
}

// ListActive returns the banners still on screen, oldest first.
func (h *NotificationHandler) ListActive(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Active(c.Request.Context()))
}

// Stream pushes dashboard events to the browser as server-sent events
// @Summary Stream dashboard events
// @Description Each event is sent with its type as the SSE event name and the event envelope as data
// @Tags notifications
// @Produce text/event-stream
// @Success 200
// @Failure 503 {object} ErrorResponse "Event stream not configured"
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.subscriber == nil {
		h.RespondWithError(c, http.StatusServiceUnavailable, "STREAM_UNAVAILABLE", "Event stream not configured", nil)
		return
	}

	ctx := c.Request.Context()
	ch, err := h.subscriber.Subscribe(ctx)
	if err != nil {
		utils.GetLogger(c, h.logger).Error("Failed to subscribe to events", "error", err)
		h.RespondWithError(c, http.StatusServiceUnavailable, "STREAM_UNAVAILABLE", "Event stream unavailable", nil)
		return
	}

	h.LogRequest(c, "Event stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		}
	})

	h.LogRequest(c, "Event stream closed")
}
