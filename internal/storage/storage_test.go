package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/config"
	"github.com/pageza/nutrilog/internal/testdb"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("should report missing keys as not found", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should round trip a value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "weeklyLog", `{"2024-05-10":[]}`))
		got, err := store.Get(ctx, "weeklyLog")
		require.NoError(t, err)
		assert.Equal(t, `{"2024-05-10":[]}`, got)
	})

	t.Run("should replace an existing value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "nutritionGoals", `{"calories":1800}`))
		require.NoError(t, store.Set(ctx, "nutritionGoals", `{"calories":2200}`))
		got, err := store.Get(ctx, "nutritionGoals")
		require.NoError(t, err)
		assert.Equal(t, `{"calories":2200}`, got)
	})

	t.Run("should keep keys independent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "userProfile", `{"age":41}`))
		got, err := store.Get(ctx, "nutritionGoals")
		require.NoError(t, err)
		assert.Equal(t, `{"calories":2200}`, got)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestGormStoreSQLite(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nutrilog.db"))
	require.NoError(t, err)
	store, err := NewGormStore(db)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestGormStorePostgres(t *testing.T) {
	dsn := testdb.StartPostgres(t)

	db, err := OpenPostgres(dsn)
	require.NoError(t, err)
	store, err := NewGormStore(db)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	addr := testdb.StartRedis(t)

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	store := NewRedisStore(client, "test:")
	exerciseStore(t, store)

	raw, err := client.Get(context.Background(), "test:weeklyLog").Result()
	require.NoError(t, err)
	assert.Equal(t, `{"2024-05-10":[]}`, raw, "keys should carry the prefix")
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failGet error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: make(map[string][]byte)}
	exerciseStore(t, NewS3Store(fake, "bucket", "nutrilog/"))

	_, ok := fake.objects["bucket/nutrilog/weeklyLog.json"]
	assert.True(t, ok, "objects should be stored under the prefix")

	t.Run("should wrap transport errors", func(t *testing.T) {
		fake.failGet = errors.New("connection reset")
		_, err := NewS3Store(fake, "bucket", "").Get(context.Background(), "weeklyLog")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("should build the memory backend", func(t *testing.T) {
		store, closeFn, err := New(ctx, &config.Config{StorageBackend: config.BackendMemory}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("should build the sqlite backend", func(t *testing.T) {
		cfg := &config.Config{
			StorageBackend: config.BackendSQLite,
			SQLitePath:     filepath.Join(t.TempDir(), "factory.db"),
		}
		store, closeFn, err := New(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &GormStore{}, store)
		assert.NoError(t, closeFn())
	})

	t.Run("should reject unknown backends", func(t *testing.T) {
		_, _, err := New(ctx, &config.Config{StorageBackend: "floppy"}, zap.NewNop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "floppy")
	})
}
