package services

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SAP-F-2025/finance-dashboard/internal/models"
)

const DefaultBadgeInterval = 30 * time.Second

// BadgeStore persists the header badge count.
type BadgeStore interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, count int) error
	HealthCheck(ctx context.Context) error
}

type badgeService struct {
	store    BadgeStore
	interval time.Duration
	// step returns the change for one tick: -1, 0 or +1.
	step   func() int
	logger *slog.Logger
}

// NewBadgeService creates the badge ticker. step may be nil for a uniform random walk.
func NewBadgeService(store BadgeStore, interval time.Duration, step func() int, logger *slog.Logger) BadgeService {
	if interval <= 0 {
		interval = DefaultBadgeInterval
	}
	if step == nil {
		step = func() int { return rand.IntN(3) - 1 }
	}
	return &badgeService{store: store, interval: interval, step: step, logger: logger}
}

func (s *badgeService) Current(ctx context.Context) models.BadgeState {
	n, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load badge count", "error", err)
	}
	return badgeState(n)
}

// Tick moves the count by one random step, never below zero.
func (s *badgeService) Tick(ctx context.Context) models.BadgeState {
	n, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load badge count", "error", err)
	}
	n = max(0, n+s.step())
	if err := s.store.Save(ctx, n); err != nil {
		s.logger.Warn("Failed to save badge count", "error", err)
	}
	return badgeState(n)
}

func (s *badgeService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Badge ticker started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Badge ticker stopped")
			return
		case <-ticker.C:
			state := s.Tick(ctx)
			s.logger.Debug("Badge ticked", "count", state.Count)
		}
	}
}

func badgeState(n int) models.BadgeState {
	return models.BadgeState{Count: n, Visible: n > 0}
}
