package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type PageHandler struct {
	BaseHandler
	service services.PageService
}

func NewPageHandler(service services.PageService, logger utils.Logger) *PageHandler {
	return &PageHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *PageHandler) GetCurrentPage(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Current(c.Request.Context()))
}

// ShowPage navigates to a page from the desktop sidebar or the mobile menu
// @Summary Show page
// @Description Unknown pages keep the home section visible under the title "Dashboard"
// @Tags pages
// @Produce json
// @Param page path string true "Page name"
// @Param surface query string false "desktop (default) or mobile"
// @Success 200 {object} models.PageState
// @Failure 400 {object} ErrorResponse
// @Router /pages/{page} [post]
func (h *PageHandler) ShowPage(c *gin.Context) {
	page := c.Param("page")
	surface := models.NavSurface(c.DefaultQuery("surface", string(models.SurfaceDesktop)))
	if !surface.IsValid() {
		h.RespondWithError(c, http.StatusBadRequest, "INVALID_SURFACE", "surface must be desktop or mobile", surface)
		return
	}

	h.LogRequest(c, "Showing page", "page", page, "surface", surface)

	c.JSON(http.StatusOK, h.service.Show(c.Request.Context(), page, surface))
}

// TriggerAction presses a page button whose feature is still pending.
// Delete buttons need confirm=true.
func (h *PageHandler) TriggerAction(c *gin.Context) {
	page, action := c.Param("page"), c.Param("action")
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	notification, err := h.service.TriggerAction(c.Request.Context(), page, action, confirmed)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}
