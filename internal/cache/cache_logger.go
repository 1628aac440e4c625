package cache

import (
	"context"
	"log/slog"
	"time"
)

// SafeSetInt stores a counter and logs instead of failing
func SafeSetInt(ctx context.Context, helper *CacheHelper, key string, value int, ttl time.Duration) bool {
	if err := helper.SetInt(ctx, key, value, ttl); err != nil {
		slog.ErrorContext(ctx, "Failed to store cache counter",
			"error", err,
			"key", helper.GetCacheKey(key))
		return false
	}
	return true
}
