package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/finance-dashboard/internal/events"
	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

const (
	DefaultNotificationDisplay = 3000 * time.Millisecond
	DefaultNotificationExit    = 300 * time.Millisecond
)

type NotificationConfig struct {
	Display time.Duration
	Exit    time.Duration
}

type notificationService struct {
	mu        sync.Mutex
	items     []models.Notification
	config    NotificationConfig
	clock     Clock
	publisher events.EventPublisher
	logger    *slog.Logger
}

// NewNotificationService creates the notification emitter. publisher may be nil.
func NewNotificationService(config NotificationConfig, clock Clock, publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	if config.Display <= 0 {
		config.Display = DefaultNotificationDisplay
	}
	if config.Exit < 0 {
		config.Exit = DefaultNotificationExit
	}
	if clock == nil {
		clock = SystemClock
	}
	return &notificationService{
		config:    config,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, message string, severity models.Severity) models.Notification {
	if !severity.IsValid() {
		severity = models.SeverityInfo
	}

	now := s.clock.Now()
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		ShownAt:   now,
		DismissAt: now.Add(s.config.Display),
		RemoveAt:  now.Add(s.config.Display + s.config.Exit),
		Phase:     models.PhaseVisible,
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.items = append(s.items, n)
	s.mu.Unlock()

	s.logger.Info("Notification shown", "id", n.ID, "severity", n.Severity, "message", n.Message)
	s.publish(ctx, n)
	return n
}

func (s *notificationService) Active(ctx context.Context) []models.Notification {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)

	active := make([]models.Notification, 0, len(s.items))
	for _, n := range s.items {
		phase, _ := n.PhaseAt(now)
		n.Phase = phase
		active = append(active, n)
	}
	return active
}

// pruneLocked drops notifications past their exit transition.
func (s *notificationService) pruneLocked(now time.Time) {
	kept := s.items[:0]
	for _, n := range s.items {
		if _, ok := n.PhaseAt(now); ok {
			kept = append(kept, n)
		}
	}
	s.items = kept
}

func (s *notificationService) publish(ctx context.Context, n models.Notification) {
	if s.publisher == nil {
		return
	}
	event, err := events.NewEvent(events.NotificationShown, n)
	if err != nil {
		s.logger.Error("Failed to build notification event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The banner is already recorded; live subscribers just miss it.
		s.logger.Warn("Failed to publish notification event", "id", n.ID, "error", err)
	}
}
