package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const badgeCountKey = "count"

// BadgeStore keeps the header badge count in redis when available and always
// mirrors it in memory, so a redis outage never loses the last known value.
type BadgeStore struct {
	mu      sync.Mutex
	manager *CacheManager
	helper  *CacheHelper
	count   int
}

func NewBadgeStore(cm *CacheManager, initial int) *BadgeStore {
	if initial < 0 {
		initial = 0
	}
	var helper *CacheHelper
	if cm != nil {
		helper = cm.Badge
	} else {
		helper = NewCacheHelper(nil, BadgeCacheConfig.Prefix)
	}
	return &BadgeStore{manager: cm, helper: helper, count: initial}
}

// Load returns the stored count. A missing key is seeded with the in-memory value.
func (s *BadgeStore) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.helper.Available() {
		return s.count, nil
	}

	n, err := s.helper.GetInt(ctx, badgeCountKey)
	switch {
	case err == nil:
		s.count = n
	case errors.Is(err, ErrCacheNotFound):
		SafeSetInt(ctx, s.helper, badgeCountKey, s.count, BadgeCacheConfig.TTL)
	default:
		slog.WarnContext(ctx, "Badge cache read failed, using memory value", "error", err)
	}
	return s.count, nil
}

func (s *BadgeStore) Save(ctx context.Context, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count = count
	if s.helper.Available() {
		SafeSetInt(ctx, s.helper, badgeCountKey, count, BadgeCacheConfig.TTL)
	}
	return nil
}

// HealthCheck pings redis when the store is backed by it. A memory-only store is always healthy.
func (s *BadgeStore) HealthCheck(ctx context.Context) error {
	if s.manager == nil {
		return nil
	}
	return s.manager.HealthCheck(ctx)
}
