package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/storage"
)

// Storage keys.
const (
	KeyWeeklyLog = "weeklyLog"
	KeyGoals     = "nutritionGoals"
	KeyProfile   = "userProfile"
)

// loadRecord reads and decodes key. Any failure, including a missing key, is
// returned as a *LoadError.
func loadRecord[T any](ctx context.Context, store storage.Store, key string, decode func(string) (T, error)) (T, error) {
	var zero T
	raw, err := store.Get(ctx, key)
	if err != nil {
		return zero, &LoadError{Key: key, Err: err}
	}
	v, err := decode(raw)
	if err != nil {
		return zero, &LoadError{Key: key, Err: err}
	}
	return v, nil
}

// saveRecord writes an encoded value, wrapping failures in a *SaveError.
func saveRecord(ctx context.Context, store storage.Store, key string, encode func() (string, error)) error {
	raw, err := encode()
	if err != nil {
		return &SaveError{Key: key, Err: err}
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return &SaveError{Key: key, Err: err}
	}
	return nil
}

// logLoadFailure records why a value fell back to its default. A key that was
// never written is expected on first run.
func logLoadFailure(logger *zap.Logger, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("no saved value, using default", zap.Error(err))
		return
	}
	logger.Warn("discarding unreadable saved value", zap.Error(err))
}
