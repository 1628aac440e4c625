package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateStudentRequest = validator.StudentCreateRequest
type UpdateStudentRequest = validator.StudentUpdateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type ImportFile = validator.ImportFileRequest

// CriteriaUpdate changes any subset of the listing criteria. Nil fields keep their current value.
type CriteriaUpdate struct {
	Query       *string
	ClassFilter *string
	Status      *string
}

// ModalForm holds raw form values keyed by field name, as posted by the modal.
type ModalForm map[string]string

// Clock abstracts time for notification lifetimes.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ===== SERVICE INTERFACES =====

type StudentService interface {
	// List applies the criteria update and returns the visible rows.
	List(ctx context.Context, update CriteriaUpdate) (*models.StudentListResponse, error)
	Criteria() StudentCriteria
	Get(ctx context.Context, nis string) (*models.Student, error)

	// Create, Update and Delete each emit exactly one outcome notification.
	Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, nis string, req *UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, nis string, confirmed bool) error

	// SelectVisible checks or unchecks every row matching the current criteria.
	SelectVisible(ctx context.Context, checked bool) (*models.SelectionResponse, error)
	Toggle(ctx context.Context, nis string, checked bool) (*models.SelectionResponse, error)
	Selection(ctx context.Context) (*models.SelectionResponse, error)
}

type ModalService interface {
	// Open replaces any open modal. The previous handle becomes stale.
	Open(ctx context.Context, kind models.ModalKind, nis string) (*models.ModalView, error)
	Active(ctx context.Context) (*models.ModalView, bool)
	// Close dismisses the modal. Closing a delete confirmation declines it.
	Close(ctx context.Context, handle string) error
	Submit(ctx context.Context, handle string, form ModalForm) (*models.Student, error)
	Confirm(ctx context.Context, handle string) error
	StartImport(ctx context.Context, handle string, file ImportFile) (*TaskHandle, error)
}

type NotificationService interface {
	Notify(ctx context.Context, message string, severity models.Severity) models.Notification
	// Active lists notifications still on screen, oldest first.
	Active(ctx context.Context) []models.Notification
}

type PageService interface {
	Show(ctx context.Context, page string, surface models.NavSurface) models.PageState
	Current(ctx context.Context) models.PageState
	// TriggerAction runs a page button that has no real implementation yet.
	// Delete buttons need confirmed set and return ErrConfirmationRequired otherwise.
	TriggerAction(ctx context.Context, page, action string, confirmed bool) (models.Notification, error)
}

type TaskService interface {
	StartImport(ctx context.Context, file ImportFile, onFinish func(models.TaskStatus)) (*TaskHandle, error)
	StartExport(ctx context.Context) (*TaskHandle, error)
	Get(ctx context.Context, id string) (*TaskHandle, error)
	Cancel(ctx context.Context, id string) (*TaskHandle, error)
	LatestReport(ctx context.Context) (*models.ReportDocument, error)
	// Shutdown cancels running tasks and waits for them to finish.
	Shutdown(ctx context.Context) error
}

type BadgeService interface {
	Current(ctx context.Context) models.BadgeState
	Tick(ctx context.Context) models.BadgeState
	// Run ticks on the configured interval until ctx is done.
	Run(ctx context.Context)
}

type ProfileService interface {
	Get(ctx context.Context) models.AdminProfile
	Update(ctx context.Context, req *UpdateProfileRequest) (*models.AdminProfile, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Initialize(ctx context.Context) error

	Student() StudentService
	Modal() ModalService
	Notification() NotificationService
	Page() PageService
	Task() TaskService
	Badge() BadgeService
	Profile() ProfileService
	Dashboard() DashboardService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
