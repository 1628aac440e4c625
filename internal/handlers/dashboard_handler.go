package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetDashboardStats returns the home page summary cards
// @Summary Get dashboard stats
// @Description Student counts by enrollment status and the paid/owing split with total arrears
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardStatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) GetClassDistribution(c *gin.Context) {
	distribution, err := h.service.GetClassDistribution(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, distribution)
}

// GetTopArrears lists the students owing the most
// @Summary Get top arrears
// @Tags dashboard
// @Produce json
// @Param limit query int false "Number of rows (default: 5, max: 20)"
// @Success 200 {array} services.ArrearsResponse
// @Router /dashboard/top-arrears [get]
func (h *DashboardHandler) GetTopArrears(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		limit = 5
	}

	arrears, err := h.service.GetTopArrears(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, arrears)
}
