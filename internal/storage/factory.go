package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/config"
)

// New builds the backend selected by cfg.StorageBackend. The returned close
// function releases its connections.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendMemory:
		return NewMemoryStore(), noop, nil

	case config.BackendRedis:
		client, err := NewRedisClient(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.RedisKeyPrefix), client.Close, nil

	case config.BackendSQLite, config.BackendPostgres:
		open := func() (*gorm.DB, error) { return OpenPostgres(cfg.PostgresDSN()) }
		if cfg.StorageBackend == config.BackendSQLite {
			open = func() (*gorm.DB, error) { return OpenSQLite(cfg.SQLitePath) }
		}
		db, err := open()
		if err != nil {
			return nil, nil, err
		}
		store, err := NewGormStore(db)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, nil, err
		}
		logger.Info("opened sql storage", zap.String("backend", cfg.StorageBackend))
		return store, store.Close, nil

	case config.BackendS3:
		client, err := NewS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using s3 storage", zap.String("bucket", cfg.S3Bucket), zap.String("prefix", cfg.S3Prefix))
		return NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), noop, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}
