package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

type ErrorResponse = models.ErrorResponse
type SuccessResponse = models.SuccessResponse

// BaseHandler carries what every handler needs: a logger and the error mapping.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs at debug level with the request scoped logger.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Debug(msg, args...)
}

func (h *BaseHandler) RespondWithError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		Details:   details,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

func (h *BaseHandler) RespondWithSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// bindError reports a malformed request body.
func (h *BaseHandler) bindError(c *gin.Context, err error) {
	h.RespondWithError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request payload", err.Error())
}

// rejectForm reports a form body that could not be decoded. The operator sees
// one error notification, the same as for a form that fails validation.
func (h *BaseHandler) rejectForm(c *gin.Context, notifications services.NotificationService, err error) {
	ve := validator.FromDecodeError(err)
	services.RejectForm(c.Request.Context(), notifications, ve)
	h.respondWithValidation(c, "INVALID_PAYLOAD", "Invalid request payload", ve)
}

func (h *BaseHandler) respondWithValidation(c *gin.Context, code, message string, ve validator.ValidationErrors) {
	resp := ErrorResponse{
		Error:     http.StatusText(http.StatusBadRequest),
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	}
	for _, fe := range ve {
		resp.ValidationErrors = append(resp.ValidationErrors, models.ValidationErrorResponse{
			Field:   fe.Field,
			Message: fe.Message,
			Value:   valueString(fe.Value),
			Code:    fe.Rule,
		})
	}
	c.JSON(http.StatusBadRequest, resp)
}

// handleServiceError maps core errors to HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		h.respondWithValidation(c, "VALIDATION_FAILED", "Validation failed", ve)
	case repositories.IsNotFoundError(err):
		h.RespondWithError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", err.Error())
	case repositories.IsDuplicateError(err):
		h.RespondWithError(c, http.StatusConflict, "DUPLICATE", "Identifier already exists", err.Error())
	case errors.Is(err, services.ErrTaskInFlight):
		h.RespondWithError(c, http.StatusConflict, "TASK_IN_FLIGHT", "Task already in progress", nil)
	case errors.Is(err, services.ErrModalNotActive):
		h.RespondWithError(c, http.StatusConflict, "MODAL_NOT_ACTIVE", "Modal is not active", nil)
	case errors.Is(err, services.ErrModalKindMismatch):
		h.RespondWithError(c, http.StatusConflict, "MODAL_KIND_MISMATCH", "Action not supported by the open modal", nil)
	case errors.Is(err, services.ErrInvalidModalKind):
		h.RespondWithError(c, http.StatusBadRequest, "INVALID_MODAL_KIND", "Unknown modal kind", nil)
	case errors.Is(err, services.ErrConfirmationRequired):
		h.RespondWithError(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Confirmation required", nil)
	case errors.Is(err, services.ErrTaskNotFound):
		h.RespondWithError(c, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found", nil)
	case errors.Is(err, services.ErrNoReport):
		h.RespondWithError(c, http.StatusNotFound, "NO_REPORT", "No report generated yet", nil)
	case errors.Is(err, services.ErrUnknownAction):
		h.RespondWithError(c, http.StatusNotFound, "UNKNOWN_ACTION", "Unknown page action", nil)
	default:
		utils.GetLogger(c, h.logger).Error("Unhandled service error", "error", err)
		h.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

func valueString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case *int64:
		if t == nil {
			return ""
		}
		return fmt.Sprint(*t)
	}
	return fmt.Sprint(v)
}
