package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

// TaskHandler serves the simulated import/export tasks and the generated report.
type TaskHandler struct {
	BaseHandler
	service services.TaskService
}

func NewTaskHandler(service services.TaskService, logger utils.Logger) *TaskHandler {
	return &TaskHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task.Response())
}

// CancelTask stops a running task. Cancelling a finished task returns its final state.
func (h *TaskHandler) CancelTask(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Cancelling task", "task_id", id)

	task, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task.Response())
}

// ExportReport starts building the finance report
// @Summary Export report
// @Tags reports
// @Produce json
// @Success 202 {object} models.TaskResponse
// @Failure 409 {object} ErrorResponse "Export already running"
// @Router /reports/export [post]
func (h *TaskHandler) ExportReport(c *gin.Context) {
	h.LogRequest(c, "Starting report export")

	task, err := h.service.StartExport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, task.Response())
}

// DownloadLatestReport returns the last successfully exported workbook
// @Summary Download report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse "No report generated yet"
// @Router /reports/latest [get]
func (h *TaskHandler) DownloadLatestReport(c *gin.Context) {
	doc, err := h.service.LatestReport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
