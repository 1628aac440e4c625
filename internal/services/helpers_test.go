package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/models"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories"
	"github.com/SAP-F-2025/finance-dashboard/internal/repositories/memory"
	"github.com/SAP-F-2025/finance-dashboard/internal/validator"
)

// fakeClock only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.August, 17, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	repo          repositories.Repository
	validator     *validator.Validator
	clock         *fakeClock
	publisher     *events.MockEventPublisher
	notifications NotificationService
	logger        *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := memory.NewMemoryRepository(memory.RepositoryConfig{})
	if err != nil {
		t.Fatalf("NewMemoryRepository() failed: %v", err)
	}
	logger := testLogger()
	clock := newFakeClock()
	publisher := events.NewMockEventPublisher(logger)
	return &testEnv{
		repo:          repo,
		validator:     validator.New(),
		clock:         clock,
		publisher:     publisher,
		notifications: NewNotificationService(NotificationConfig{Display: DefaultNotificationDisplay, Exit: DefaultNotificationExit}, clock, publisher, logger),
		logger:        logger,
	}
}

func (e *testEnv) students() StudentService {
	return NewStudentService(e.repo, e.validator, e.notifications, e.publisher, e.logger)
}

func (e *testEnv) tasks(config TaskConfig) TaskService {
	return NewTaskService(config, e.repo, e.validator, e.notifications, nil, e.publisher, e.logger)
}

// shown returns the notifications emitted so far. The clock is frozen so none expire.
func (e *testEnv) shown() []models.Notification {
	return e.notifications.Active(context.Background())
}

func (e *testEnv) rosterSize(t *testing.T) int {
	t.Helper()
	n, err := e.repo.Student().Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	return n
}

func assertSingleNotification(t *testing.T, got []models.Notification, severity models.Severity, message string) {
	t.Helper()
	if len(got) != 1 {
		t.Fatalf("want exactly 1 notification, got %d: %+v", len(got), got)
	}
	if got[0].Severity != severity {
		t.Errorf("severity = %s, want %s", got[0].Severity, severity)
	}
	if message != "" && got[0].Message != message {
		t.Errorf("message = %q, want %q", got[0].Message, message)
	}
}

func waitDone(t *testing.T, h *TaskHandle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("task %s did not finish", h.ID)
	}
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
