package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateScoreCache drops the score and credibility caches for a user
// after a recompute lands.
func InvalidateScoreCache(ctx context.Context, cm *CacheManager, userID string) {
	SafeDelete(ctx, cm.SkillScore, fmt.Sprintf("user:%s:all", userID))
	_ = cm.InvalidateUserScores(ctx, userID)
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("user:%s:*", userID))
}

// InvalidateSessionCache drops session-derived caches for both participants.
func InvalidateSessionCache(ctx context.Context, cm *CacheManager, sessionID uint, teacherID, learnerID string) {
	SafeDelete(ctx, cm.Fast, fmt.Sprintf("session:%d", sessionID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("user:%s:*", teacherID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("user:%s:*", learnerID))
}
