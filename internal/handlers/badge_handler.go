package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type BadgeHandler struct {
	BaseHandler
	service services.BadgeService
}

func NewBadgeHandler(service services.BadgeService, logger utils.Logger) *BadgeHandler {
	return &BadgeHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetBadge returns the header notification counter. Hidden when the count is zero.
func (h *BadgeHandler) GetBadge(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Current(c.Request.Context()))
}
