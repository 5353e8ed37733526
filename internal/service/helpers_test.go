package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pageza/nutrilog/internal/storage"
)

var errDiskFull = errors.New("quota exceeded")

// flakyStore is a memory store whose writes can be made to fail.
type flakyStore struct {
	*storage.MemoryStore
	mu     sync.Mutex
	failOn error
	writes int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *flakyStore) failWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn = err
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	failOn := f.failOn
	f.writes++
	f.mu.Unlock()
	if failOn != nil {
		return failOn
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// at returns a fixed instant on 2024-05-10 in UTC.
func at(hour, minute int) time.Time {
	return time.Date(2024, time.May, 10, hour, minute, 0, 0, time.UTC)
}
