package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/thesis-workflow-api/pkg/errors"
)

// generationKey sits outside every invalidation pattern, so deleting cached
// entries never resets it.
const generationKey = "cache:generation"

// CacheRepository abstracts persistence for cached report payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// CacheService is the read-through report cache. Every committed mutation
// bumps a generation counter; readers take the generation before querying
// Postgres, key their entry by it and only store the result while it is still
// current. A value built from rows read before a commit can therefore never be
// served after that commit.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
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

// Generation returns the current cache generation. It is 0 while caching is
// disabled.
func (s *CacheService) Generation(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	gen, err := s.repo.Counter(ctx, generationKey)
	if err != nil {
		s.logger.Warn("cache generation read failed", zap.Error(err))
		return 0, err
	}
	return gen, nil
}

// Get looks up key and reports whether it was a hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	switch {
	case err == nil:
		s.metrics.RecordCacheOperation(true, duration)
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.metrics.RecordCacheOperation(false, duration)
		return false, nil
	default:
		s.metrics.RecordCacheOperation(false, duration)
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
}

// SetAtGeneration stores value only if no mutation committed since gen was
// read. The check and the write are not atomic; the key must embed gen so
// that a write slipping through lands on a key no later reader asks for.
func (s *CacheService) SetAtGeneration(ctx context.Context, key string, value interface{}, ttl time.Duration, gen int64) error {
	if !s.Enabled() {
		return nil
	}
	current, err := s.repo.Counter(ctx, generationKey)
	if err != nil {
		s.logger.Warn("cache generation read failed", zap.String("key", key), zap.Error(err))
		return err
	}
	if current != gen {
		s.metrics.RecordStaleCacheWrite()
		s.logger.Debug("stale cache write skipped", zap.String("key", key), zap.Int64("read_generation", gen), zap.Int64("current_generation", current))
		return nil
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err = s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate bumps the generation and then drops the entries matching
// pattern. Writers call it after commit and before responding. The delete
// only reclaims memory; the generation bump is what hides older entries.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	_, incrErr := s.repo.Incr(ctx, generationKey)
	if incrErr != nil {
		s.logger.Error("cache generation bump failed", zap.Error(incrErr))
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Error("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return incrErr
}
