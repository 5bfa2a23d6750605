package service

import (
	"context"
	"errors"
	"hash/fnv"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached analytics views.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the view cache and reports hit/miss metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	// generations is bumped under the write lock on every user invalidation;
	// view writes hold the read lock and are skipped when their stamp is stale.
	genMu       sync.RWMutex
	generations [generationStripes]uint64
}

const generationStripes = 256

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// InvalidateUser drops every derived analytics view belonging to userID. Views
// computed before the call are not written back afterwards.
func (s *CacheService) InvalidateUser(ctx context.Context, userID string) error {
	if !s.Enabled() {
		return nil
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[generationStripe(userID)]++
	return s.Invalidate(ctx, analyticsUserPattern(userID))
}

func (s *CacheService) generation(userID string) uint64 {
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	return s.generations[generationStripe(userID)]
}

// setIfCurrent stores value unless userID was invalidated since gen was read.
func (s *CacheService) setIfCurrent(ctx context.Context, userID string, gen uint64, key string, value interface{}) bool {
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	if s.generations[generationStripe(userID)] != gen {
		return false
	}
	_ = s.Set(ctx, key, value, 0)
	return true
}

func generationStripe(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % generationStripes
}

// cachedView serves key from cache, or computes it with load and populates the cache.
// A failing cache never fails the read; the boolean reports a cache hit.
func cachedView[T any](ctx context.Context, cache *CacheService, userID, key string, load func() (T, error)) (T, bool, error) {
	if !cache.Enabled() {
		value, err := load()
		return value, false, err
	}
	var cached T
	if hit, err := cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}
	gen := cache.generation(userID)
	value, err := load()
	if err != nil {
		var zero T
		return zero, false, err
	}
	if !cache.setIfCurrent(ctx, userID, gen, key, value) {
		cache.logger.Debug("skipped stale view write", zap.String("key", key))
	}
	return value, false, nil
}

// makeAnalyticsCacheKey builds "analytics:<user>:<view>[:<part>...]". The user id is
// always the second segment so a single pattern can drop all of a user's views.
func makeAnalyticsCacheKey(view, userID string, parts ...string) string {
	var builder strings.Builder
	builder.Grow(32 + len(parts)*16)
	builder.WriteString("analytics:")
	builder.WriteString(escapeKeyPart(userID))
	builder.WriteByte(':')
	builder.WriteString(view)
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(escapeKeyPart(part))
	}
	return builder.String()
}

func analyticsUserPattern(userID string) string {
	return "analytics:" + escapeKeyPart(userID) + ":*"
}

// escapeKeyPart query-escapes a segment so distinct inputs never share a key and
// the result carries no ':' or glob metacharacters.
func escapeKeyPart(part string) string {
	return url.QueryEscape(part)
}
