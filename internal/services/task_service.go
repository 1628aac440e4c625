package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

const (
	DefaultImportDuration = 2 * time.Second
	DefaultExportDuration = 2 * time.Second
	DefaultImportMaxBytes = 5 * 1024 * 1024
	DefaultTaskRetention  = 10 * time.Minute
)

type taskMessages struct {
	started   string
	succeeded string
	failed    string
	cancelled string
	busy      string
}

var taskText = map[models.TaskKind]taskMessages{
	models.TaskImport: {
		started:   "Import sedang diproses...",
		succeeded: "Data siswa berhasil diimport!",
		failed:    "Import data siswa gagal",
		cancelled: "Import dibatalkan",
		busy:      "Import masih diproses, tunggu hingga selesai",
	},
	models.TaskExport: {
		started:   "Laporan sedang diproses...",
		succeeded: "Laporan berhasil diunduh!",
		failed:    "Laporan gagal dibuat",
		cancelled: "Pembuatan laporan dibatalkan",
		busy:      "Laporan masih diproses, tunggu hingga selesai",
	},
}

type TaskConfig struct {
	ImportDuration time.Duration
	ExportDuration time.Duration
	ImportMaxBytes int64
	// Retention is how long a finished task stays queryable.
	Retention time.Duration
}

// TaskHandle tracks one simulated long-running action.
type TaskHandle struct {
	ID        string
	Kind      models.TaskKind
	StartedAt time.Time

	mu         sync.Mutex
	status     models.TaskStatus
	finishedAt time.Time
	cancel     context.CancelFunc
	done       chan struct{}
}

func (h *TaskHandle) Status() models.TaskStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Done is closed after the terminal notification has been emitted.
func (h *TaskHandle) Done() <-chan struct{} {
	return h.done
}

func (h *TaskHandle) Response() models.TaskResponse {
	return models.TaskResponse{
		ID:        h.ID,
		Kind:      h.Kind,
		Status:    h.Status(),
		StartedAt: h.StartedAt,
	}
}

type taskService struct {
	config        TaskConfig
	repo          repositories.Repository
	validator     *validator.Validator
	notifications NotificationService
	sink          ReportSink
	publisher     events.EventPublisher
	logger        *slog.Logger

	mu       sync.Mutex
	inFlight map[models.TaskKind]*TaskHandle
	tasks    map[string]*TaskHandle
	latest   *models.ReportDocument

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// NewTaskService creates the import/export runner. publisher may be nil.
func NewTaskService(config TaskConfig, repo repositories.Repository, v *validator.Validator, notifications NotificationService, sink ReportSink, publisher events.EventPublisher, logger *slog.Logger) TaskService {
	if config.ImportDuration < 0 {
		config.ImportDuration = DefaultImportDuration
	}
	if config.ExportDuration < 0 {
		config.ExportDuration = DefaultExportDuration
	}
	if config.ImportMaxBytes <= 0 {
		config.ImportMaxBytes = DefaultImportMaxBytes
	}
	if config.Retention <= 0 {
		config.Retention = DefaultTaskRetention
	}
	if sink == nil {
		sink = NewExcelReportSink()
	}

	base, stop := context.WithCancel(context.Background())
	return &taskService{
		config:        config,
		repo:          repo,
		validator:     v,
		notifications: notifications,
		sink:          sink,
		publisher:     publisher,
		logger:        logger,
		inFlight:      make(map[models.TaskKind]*TaskHandle),
		tasks:         make(map[string]*TaskHandle),
		baseCtx:       base,
		stop:          stop,
	}
}

// StartImport accepts the picked file and simulates processing it. The file
// content is not parsed. onFinish, when set, runs with the terminal status.
func (s *taskService) StartImport(ctx context.Context, file ImportFile, onFinish func(models.TaskStatus)) (*TaskHandle, error) {
	if errs := s.validator.GetBusinessValidator().ValidateImportFile(&file, s.config.ImportMaxBytes); len(errs) > 0 {
		s.notifications.Notify(ctx, fmt.Sprintf(msgInvalidForm, errs.First()), models.SeverityError)
		return nil, errs
	}

	work := func(ctx context.Context) error {
		s.logger.Info("Import file processed", "file_name", file.FileName, "size", file.Size)
		return nil
	}
	return s.start(ctx, models.TaskImport, s.config.ImportDuration, work, onFinish)
}

// StartExport renders the current roster once the simulated delay has passed.
func (s *taskService) StartExport(ctx context.Context) (*TaskHandle, error) {
	work := func(ctx context.Context) error {
		students, err := s.repo.Student().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list students: %w", err)
		}
		doc, err := s.sink.Render(ctx, students, time.Now())
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}

		s.mu.Lock()
		s.latest = doc
		s.mu.Unlock()

		s.logger.Info("Report generated", "file_name", doc.FileName, "rows", doc.Rows, "bytes", len(doc.Content))
		return nil
	}
	return s.start(ctx, models.TaskExport, s.config.ExportDuration, work, nil)
}

func (s *taskService) Get(ctx context.Context, id string) (*TaskHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return h, nil
}

// Cancel aborts a running task and waits, bounded by ctx, for it to settle.
// Cancelling a finished task is a no-op.
func (s *taskService) Cancel(ctx context.Context, id string) (*TaskHandle, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.cancel()

	select {
	case <-h.Done():
	case <-ctx.Done():
	}
	return h, nil
}

func (s *taskService) LatestReport(ctx context.Context) (*models.ReportDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil, ErrNoReport
	}
	doc := *s.latest
	return &doc, nil
}

func (s *taskService) Shutdown(ctx context.Context) error {
	s.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("tasks still running at shutdown: %w", ctx.Err())
	}
}

func (s *taskService) start(ctx context.Context, kind models.TaskKind, delay time.Duration, work func(context.Context) error, onFinish func(models.TaskStatus)) (*TaskHandle, error) {
	text := taskText[kind]

	s.mu.Lock()
	if s.baseCtx.Err() != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("task service stopped: %w", s.baseCtx.Err())
	}
	if running := s.inFlight[kind]; running != nil {
		s.mu.Unlock()
		s.notifications.Notify(ctx, text.busy, models.SeverityError)
		return nil, fmt.Errorf("%w: %s %s", ErrTaskInFlight, kind, running.ID)
	}

	s.pruneLocked(time.Now())

	taskCtx, cancel := context.WithCancel(s.baseCtx)
	h := &TaskHandle{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now(),
		status:    models.TaskRunning,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.inFlight[kind] = h
	s.tasks[h.ID] = h
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Task started", "task_id", h.ID, "kind", kind)
	s.notifications.Notify(ctx, text.started, models.SeverityInfo)

	go s.run(taskCtx, h, delay, work, onFinish)
	return h, nil
}

func (s *taskService) run(ctx context.Context, h *TaskHandle, delay time.Duration, work func(context.Context) error, onFinish func(models.TaskStatus)) {
	defer s.wg.Done()
	defer h.cancel()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	var err error
	select {
	case <-timer.C:
		err = work(ctx)
	case <-ctx.Done():
		err = ctx.Err()
	}

	status := models.TaskSucceeded
	switch {
	case errors.Is(err, context.Canceled):
		status = models.TaskCancelled
	case err != nil:
		status = models.TaskFailed
		s.logger.Error("Task failed", "task_id", h.ID, "kind", h.Kind, "error", err)
	}
	s.finish(h, status, onFinish)
}

// pruneLocked forgets tasks that finished more than the retention window ago.
// Caller holds s.mu.
func (s *taskService) pruneLocked(now time.Time) {
	for id, h := range s.tasks {
		h.mu.Lock()
		expired := !h.finishedAt.IsZero() && now.Sub(h.finishedAt) > s.config.Retention
		h.mu.Unlock()
		if expired {
			delete(s.tasks, id)
		}
	}
}

// finish releases the in-flight slot and emits the single terminal notification.
func (s *taskService) finish(h *TaskHandle, status models.TaskStatus, onFinish func(models.TaskStatus)) {
	s.mu.Lock()
	if s.inFlight[h.Kind] == h {
		delete(s.inFlight, h.Kind)
	}
	s.mu.Unlock()

	h.mu.Lock()
	h.status = status
	h.finishedAt = time.Now()
	h.mu.Unlock()

	text := taskText[h.Kind]
	ctx := context.Background()
	switch status {
	case models.TaskSucceeded:
		s.notifications.Notify(ctx, text.succeeded, models.SeveritySuccess)
	case models.TaskCancelled:
		s.notifications.Notify(ctx, text.cancelled, models.SeverityInfo)
	default:
		s.notifications.Notify(ctx, text.failed, models.SeverityError)
	}
	s.logger.Info("Task finished", "task_id", h.ID, "kind", h.Kind, "status", status)

	if s.publisher != nil {
		if event, err := events.NewEvent(events.TaskFinished, h.Response()); err == nil {
			if err := s.publisher.Publish(ctx, event); err != nil {
				s.logger.Warn("Failed to publish task event", "task_id", h.ID, "error", err)
			}
		}
	}

	if onFinish != nil {
		onFinish(status)
	}
	close(h.done)
}
