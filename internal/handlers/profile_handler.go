package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	service       services.ProfileService
	notifications services.NotificationService
}

func NewProfileHandler(service services.ProfileService, notifications services.NotificationService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:   NewBaseHandler(logger),
		service:       service,
		notifications: notifications,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Get(c.Request.Context()))
}

// UpdateProfile saves the admin profile form
// @Summary Update admin profile
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body services.UpdateProfileRequest true "Profile data"
// @Success 200 {object} models.AdminProfile
// @Failure 400 {object} ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectForm(c, h.notifications, err)
		return
	}

	h.LogRequest(c, "Updating profile")

	profile, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
