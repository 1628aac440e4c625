package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/services"
	"github.com/SAP-F-2025/finance-dashboard/internal/utils"
)

type HandlerManager struct {
	studentHandler      *StudentHandler
	modalHandler        *ModalHandler
	notificationHandler *NotificationHandler
	pageHandler         *PageHandler
	taskHandler         *TaskHandler
	badgeHandler        *BadgeHandler
	profileHandler      *ProfileHandler
	dashboardHandler    *DashboardHandler

	serviceManager services.ServiceManager
}

// NewHandlerManager builds every handler from an initialized service manager.
// subscriber feeds the notification stream and may be nil.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	subscriber events.EventSubscriber,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		studentHandler:      NewStudentHandler(serviceManager.Student(), serviceManager.Notification(), logger),
		modalHandler:        NewModalHandler(serviceManager.Modal(), serviceManager.Notification(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), subscriber, logger),
		pageHandler:         NewPageHandler(serviceManager.Page(), logger),
		taskHandler:         NewTaskHandler(serviceManager.Task(), logger),
		badgeHandler:        NewBadgeHandler(serviceManager.Badge(), logger),
		profileHandler:      NewProfileHandler(serviceManager.Profile(), serviceManager.Notification(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		students := v1.Group("/students")
		{
			students.GET("", hm.studentHandler.ListStudents)
			students.POST("", hm.studentHandler.CreateStudent)

			// Selection
			students.GET("/selection", hm.studentHandler.GetSelection)
			students.PUT("/selection", hm.studentHandler.SelectVisible)
			students.PUT("/:nis/selection", hm.studentHandler.ToggleSelection)

			students.GET("/:nis", hm.studentHandler.GetStudent)
			students.PUT("/:nis", hm.studentHandler.UpdateStudent)
			students.DELETE("/:nis", hm.studentHandler.DeleteStudent)
		}

		modals := v1.Group("/modals")
		{
			modals.GET("/active", hm.modalHandler.GetActiveModal)
			modals.POST("", hm.modalHandler.OpenModal)
			modals.DELETE("/:handle", hm.modalHandler.CloseModal)
			modals.POST("/:handle/submit", hm.modalHandler.SubmitModal)
			modals.POST("/:handle/confirm", hm.modalHandler.ConfirmModal)
			modals.POST("/:handle/import", hm.modalHandler.ImportStudents)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.GET("/:id", hm.taskHandler.GetTask)
			tasks.DELETE("/:id", hm.taskHandler.CancelTask)
		}

		reports := v1.Group("/reports")
		{
			reports.POST("/export", hm.taskHandler.ExportReport)
			reports.GET("/latest", hm.taskHandler.DownloadLatestReport)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListActive)
			notifications.GET("/stream", hm.notificationHandler.Stream)
		}

		pages := v1.Group("/pages")
		{
			pages.GET("/current", hm.pageHandler.GetCurrentPage)
			pages.POST("/:page", hm.pageHandler.ShowPage)
			pages.POST("/:page/actions/:action", hm.pageHandler.TriggerAction)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetDashboardStats)
			dashboard.GET("/class-distribution", hm.dashboardHandler.GetClassDistribution)
			dashboard.GET("/top-arrears", hm.dashboardHandler.GetTopArrears)
		}

		v1.GET("/badge", hm.badgeHandler.GetBadge)

		v1.GET("/profile", hm.profileHandler.GetProfile)
		v1.PUT("/profile", hm.profileHandler.UpdateProfile)
	}

	router.GET("/health", hm.HealthCheck)
}

// HealthCheck reports whether the roster store answers.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "finance-dashboard",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "finance-dashboard",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
