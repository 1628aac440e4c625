package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	Notification  NotificationConfig
	Task          TaskConfig
	BadgeInterval time.Duration

	// Optional overrides, mostly for tests
	Clock      Clock
	ReportSink ReportSink
	BadgeStep  func() int
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	publisher  events.EventPublisher
	badgeStore BadgeStore
	config     ServiceManagerConfig

	// Service instances
	notificationService NotificationService
	studentService      StudentService
	modalService        ModalService
	pageService         PageService
	taskService         TaskService
	badgeService        BadgeService
	profileService      ProfileService
	dashboardService    DashboardService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies. publisher may be nil.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, badgeStore BadgeStore, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:       repo,
		logger:     logger,
		validator:  v,
		publisher:  publisher,
		badgeStore: badgeStore,
		config:     config,
	}
}

// DefaultServiceManagerConfig returns the timings the dashboard ships with
func DefaultServiceManagerConfig() ServiceManagerConfig {
	return ServiceManagerConfig{
		Notification: NotificationConfig{
			Display: DefaultNotificationDisplay,
			Exit:    DefaultNotificationExit,
		},
		Task: TaskConfig{
			ImportDuration: DefaultImportDuration,
			ExportDuration: DefaultExportDuration,
			ImportMaxBytes: DefaultImportMaxBytes,
			Retention:      DefaultTaskRetention,
		},
		BadgeInterval: DefaultBadgeInterval,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.repo == nil || sm.validator == nil || sm.badgeStore == nil {
		return errors.New("service manager missing repository, validator or badge store")
	}

	sm.logger.Info("Initializing service manager")

	sm.notificationService = NewNotificationService(sm.config.Notification, sm.config.Clock, sm.publisher, sm.logger)
	sm.studentService = NewStudentService(sm.repo, sm.validator, sm.notificationService, sm.publisher, sm.logger)
	sm.taskService = NewTaskService(sm.config.Task, sm.repo, sm.validator, sm.notificationService, sm.config.ReportSink, sm.publisher, sm.logger)
	sm.modalService = NewModalService(sm.studentService, sm.taskService, sm.notificationService, sm.logger)
	sm.pageService = NewPageService(sm.notificationService, sm.logger)
	sm.badgeService = NewBadgeService(sm.badgeStore, sm.config.BadgeInterval, sm.config.BadgeStep, sm.logger)
	sm.profileService = NewProfileService(sm.validator, sm.notificationService, sm.logger)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

// mustBeReady panics when a getter is used before Initialize. Caller holds the read lock.
func (sm *serviceManager) mustBeReady() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.studentService
}

func (sm *serviceManager) Modal() ModalService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.modalService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.notificationService
}

func (sm *serviceManager) Page() PageService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.pageService
}

func (sm *serviceManager) Task() TaskService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.taskService
}

func (sm *serviceManager) Badge() BadgeService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.badgeService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.profileService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady()
	return sm.dashboardService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	if err := sm.badgeStore.HealthCheck(ctx); err != nil {
		return fmt.Errorf("badge store health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")
	sm.shutdown = true

	if sm.taskService != nil {
		if err := sm.taskService.Shutdown(ctx); err != nil {
			sm.logger.Error("Task shutdown incomplete", "error", err)
			return err
		}
	}

	sm.logger.Info("Service manager shut down successfully")
	return nil
}
