package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type ModalHandler struct {
	BaseHandler
	service       services.ModalService
	notifications services.NotificationService
}

func NewModalHandler(service services.ModalService, notifications services.NotificationService, logger utils.Logger) *ModalHandler {
	return &ModalHandler{
		BaseHandler:   NewBaseHandler(logger),
		service:       service,
		notifications: notifications,
	}
}

type OpenModalRequest struct {
	Kind models.ModalKind `json:"kind" binding:"required"`
	NIS  string           `json:"nis"`
}

// OpenModal opens a modal, replacing any modal that is already open
// @Summary Open modal
// @Tags modals
// @Accept json
// @Produce json
// @Param modal body OpenModalRequest true "Modal kind and target student"
// @Success 201 {object} models.ModalView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /modals [post]
func (h *ModalHandler) OpenModal(c *gin.Context) {
	var req OpenModalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.LogRequest(c, "Opening modal", "kind", req.Kind, "nis", req.NIS)

	view, err := h.service.Open(c.Request.Context(), req.Kind, req.NIS)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *ModalHandler) GetActiveModal(c *gin.Context) {
	view, ok := h.service.Active(c.Request.Context())
	if !ok {
		h.RespondWithError(c, http.StatusNotFound, "NO_ACTIVE_MODAL", "No modal is open", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CloseModal dismisses the modal. On a delete confirmation this declines the delete.
func (h *ModalHandler) CloseModal(c *gin.Context) {
	handle := c.Param("handle")
	h.LogRequest(c, "Closing modal", "handle", handle)

	if err := h.service.Close(c.Request.Context(), handle); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitModal posts the add or edit form. Values come as a JSON object of
// strings or as a urlencoded form.
// @Summary Submit modal form
// @Tags modals
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param handle path string true "Modal handle"
// @Success 200 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Stale handle or wrong modal kind"
// @Router /modals/{handle}/submit [post]
func (h *ModalHandler) SubmitModal(c *gin.Context) {
	handle := c.Param("handle")

	form := services.ModalForm{}
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&form); err != nil {
			h.rejectForm(c, h.notifications, err)
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			h.rejectForm(c, h.notifications, err)
			return
		}
		for key := range c.Request.PostForm {
			form[key] = c.PostForm(key)
		}
	}

	h.LogRequest(c, "Submitting modal", "handle", handle)

	student, err := h.service.Submit(c.Request.Context(), handle, form)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *ModalHandler) ConfirmModal(c *gin.Context) {
	handle := c.Param("handle")
	h.LogRequest(c, "Confirming modal", "handle", handle)

	if err := h.service.Confirm(c.Request.Context(), handle); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Confirmed", nil)
}

// ImportStudents accepts the picked file from the import modal and starts the import task
// @Summary Import students
// @Description The file is checked for type and size only. Its content is not parsed.
// @Tags modals
// @Accept multipart/form-data
// @Produce json
// @Param handle path string true "Modal handle"
// @Param file formData file true "Excel file (.xlsx or .xls)"
// @Success 202 {object} models.TaskResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Import already running"
// @Router /modals/{handle}/import [post]
func (h *ModalHandler) ImportStudents(c *gin.Context) {
	handle := c.Param("handle")

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "FILE_REQUIRED", "A file is required", err.Error())
		return
	}

	h.LogRequest(c, "Starting import", "handle", handle, "file", header.Filename, "size", header.Size)

	task, err := h.service.StartImport(c.Request.Context(), handle, services.ImportFile{
		FileName: header.Filename,
		Size:     header.Size,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, task.Response())
}
