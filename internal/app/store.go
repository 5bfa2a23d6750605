package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/prepx-tracker-api/internal/repository"
	"github.com/noah-isme/prepx-tracker-api/internal/service"
	"github.com/noah-isme/prepx-tracker-api/pkg/cache"
	"github.com/noah-isme/prepx-tracker-api/pkg/config"
	"github.com/noah-isme/prepx-tracker-api/pkg/database"
)

// Backend is the opened persistence layer: the statistics repository plus the
// optional Redis client shared with the view cache.
type Backend struct {
	Stats service.StatsRepository
	Redis *redis.Client

	db *sqlx.DB
}

// OpenBackend connects the statistics store selected by cfg.Store.Driver. Redis is
// also dialled when the analytics cache is enabled.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Store.Driver == config.StoreDriverPostgres {
			db, err = database.NewPostgres(ctx, cfg.Database)
		} else {
			db, err = database.NewSQLite(cfg.SQLite)
		}
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
		}
		repo := repository.NewStatsRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare %s schema: %w", cfg.Store.Driver, err)
		}
		b.db = db
		b.Stats = repo
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		b.Redis = client
		b.Stats = repository.NewRedisStatsRepository(client, cfg.Store.KeyPrefix)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	if cfg.Analytics.CacheEnabled && b.Redis == nil {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			// views are still served uncached
			logger.Warn("analytics cache disabled: redis unavailable", zap.Error(err))
		} else {
			b.Redis = client
		}
	}

	logger.Info("statistics store ready",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("redis", b.Redis != nil),
	)
	return b, nil
}

// Checks returns readiness probes for every opened dependency.
func (b *Backend) Checks() map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error)
	if b.db != nil {
		checks["database"] = b.db.PingContext
	}
	if b.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return b.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases every connection.
func (b *Backend) Close() error {
	var firstErr error
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			firstErr = err
		}
	}
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
