package questiongen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SathwikPrabhu-07/PEERGRADE/internal/cache"
)

// CachedGenerator wraps a Generator with an injected TTL cache. The cache is
// explicit dependency-injected state, not a package-level variable, so tests
// can supply their own and requests stay isolated.
type CachedGenerator struct {
	inner  Generator
	cache  *cache.CacheHelper
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedGenerator(inner Generator, cacheHelper *cache.CacheHelper, ttl time.Duration, logger *slog.Logger) *CachedGenerator {
	if ttl <= 0 {
		ttl = cache.QuestionCacheConfig.TTL
	}
	return &CachedGenerator{
		inner:  inner,
		cache:  cacheHelper,
		ttl:    ttl,
		logger: logger,
	}
}

func (g *CachedGenerator) Generate(ctx context.Context, req Request) ([]Question, error) {
	req = normalizeRequest(req)
	key := cacheKey(req)

	if g.cache != nil {
		var cached []Question
		if err := g.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			g.logger.Debug("Question cache hit", "key", key)
			return cached, nil
		}
	}

	questions, err := g.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, questions, g.ttl); err != nil {
			g.logger.Warn("Failed to cache generated questions", "key", key, "error", err)
		}
	}

	return questions, nil
}

// cacheKey normalizes the request so trivially different spellings of the
// same topic share an entry.
func cacheKey(req Request) string {
	return fmt.Sprintf("%s:%s:%s:%d",
		normalizeTerm(req.SkillName),
		normalizeTerm(req.Topic),
		strings.ToLower(req.Difficulty),
		req.Count)
}

func normalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}
