package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/models"
	"github.com/noah-isme/prepx-tracker-api/internal/repository"
	appErrors "github.com/noah-isme/prepx-tracker-api/pkg/errors"
)

// StatsRepository persists the serialized statistics blob of each user.
type StatsRepository interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Put(ctx context.Context, userID string, payload []byte) error
	Delete(ctx context.Context, userID string) error
}

// StatsStore loads and saves whole PracticeStats records. Mutations made through Update
// are serialized per user within this process.
type StatsStore struct {
	repo    StatsRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewStatsStore constructs a statistics store.
func NewStatsStore(repo StatsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsStore{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		locks:   make(map[string]*userLock),
	}
}

// Load returns the stored statistics for userID. Missing or undecodable data yields
// fresh zeroed statistics; only store failures are reported as errors.
func (s *StatsStore) Load(ctx context.Context, userID string) (*models.PracticeStats, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.repo.Get(ctx, userID)
	s.metrics.ObserveStoreQuery("get", time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrStatsNotFound) {
			return models.NewPracticeStats(), nil
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load practice stats")
	}

	stats, err := decodeStats(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable practice stats",
			zap.String("user_id", userID),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
		s.metrics.RecordLoadFallback("corrupt")
		return models.NewPracticeStats(), nil
	}
	return stats, nil
}

// Save overwrites the stored statistics for userID.
func (s *StatsStore) Save(ctx context.Context, userID string, stats *models.PracticeStats) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if stats == nil {
		return appErrors.Clone(appErrors.ErrValidation, "stats are required")
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to encode practice stats")
	}

	start := time.Now()
	err = s.repo.Put(ctx, userID, payload)
	s.metrics.ObserveStoreQuery("put", time.Since(start))
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to save practice stats")
	}
	s.invalidate(ctx, userID)
	return nil
}

// Reset deletes all stored state for userID.
func (s *StatsStore) Reset(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	unlock := s.lock(userID)
	defer unlock()

	start := time.Now()
	err := s.repo.Delete(ctx, userID)
	s.metrics.ObserveStoreQuery("delete", time.Since(start))
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to reset practice stats")
	}
	s.invalidate(ctx, userID)
	return nil
}

// Update runs load, mutate and save for userID while holding the user's lock. When
// mutate returns an error nothing is saved.
func (s *StatsStore) Update(ctx context.Context, userID string, mutate func(stats *models.PracticeStats) error) (*models.PracticeStats, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	unlock := s.lock(userID)
	defer unlock()

	stats, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := mutate(stats); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, userID, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Import replaces userID's statistics with a previously exported or legacy JSON
// document. Unlike Load, an unreadable document is rejected.
func (s *StatsStore) Import(ctx context.Context, userID string, raw []byte) (*models.PracticeStats, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	stats, err := decodeStats(raw)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid practice stats document")
	}

	unlock := s.lock(userID)
	defer unlock()
	if err := s.Save(ctx, userID, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsStore) lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

func (s *StatsStore) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func decodeStats(raw []byte) (*models.PracticeStats, error) {
	stats := models.NewPracticeStats()
	if err := json.Unmarshal(raw, stats); err != nil {
		return nil, err
	}
	stats.Normalize()
	return stats, nil
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	return nil
}
