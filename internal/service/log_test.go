package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/service"
	"github.com/pageza/nutrilog/internal/storage"
)

var oats = models.FoodAnalysis{FoodName: "oatmeal", Calories: 300, ProteinG: 10, CarbsG: 54, FatG: 5, FiberG: 8}

func newLog(store storage.Store) *service.LogService {
	return service.NewLogService(store, time.UTC, 7, zap.NewNop())
}

func TestLogService_Load(t *testing.T) {
	ctx := context.Background()
	now := at(9, 0)

	t.Run("should report a missing log and start empty", func(t *testing.T) {
		store := newFlakyStore()
		svc := newLog(store)

		err := svc.Load(ctx, now)
		require.Error(t, err)
		assert.True(t, service.IsLoadError(err))
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Empty(t, svc.Snapshot())
		assert.Zero(t, store.writeCount())
	})

	t.Run("should not write back a malformed log", func(t *testing.T) {
		store := newFlakyStore()
		require.NoError(t, store.MemoryStore.Set(ctx, service.KeyWeeklyLog, "{not json"))
		svc := newLog(store)

		err := svc.Load(ctx, now)
		assert.True(t, service.IsLoadError(err))
		assert.Empty(t, svc.Snapshot())
		assert.Zero(t, store.writeCount())

		raw, err := store.Get(ctx, service.KeyWeeklyLog)
		require.NoError(t, err)
		assert.Equal(t, "{not json", raw)
	})

	t.Run("should prune stale days and write the result back", func(t *testing.T) {
		store := newFlakyStore()
		persisted := models.WeeklyLog{
			"2024-05-10": {{ID: "a", FoodName: "eggs", Calories: 150}},
			"2024-05-03": {{ID: "b", FoodName: "toast", Calories: 90}},
			"2024-05-02": {{ID: "c", FoodName: "rice", Calories: 200}},
		}
		raw, err := persisted.Encode()
		require.NoError(t, err)
		require.NoError(t, store.MemoryStore.Set(ctx, service.KeyWeeklyLog, raw))

		svc := newLog(store)
		require.NoError(t, svc.Load(ctx, now))

		snap := svc.Snapshot()
		assert.Len(t, snap, 2)
		assert.Contains(t, snap, "2024-05-03")
		assert.NotContains(t, snap, "2024-05-02")

		raw, err = store.Get(ctx, service.KeyWeeklyLog)
		require.NoError(t, err)
		var written map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(raw), &written))
		assert.NotContains(t, written, "2024-05-02")
		assert.Equal(t, 1, store.writeCount())
	})
}

func TestLogService_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("should add entries newest first and persist each change", func(t *testing.T) {
		store := newFlakyStore()
		svc := newLog(store)

		first, err := svc.Add(ctx, at(8, 0), oats, "a bowl of oats")
		require.NoError(t, err)
		second, err := svc.Add(ctx, at(12, 30), models.FoodAnalysis{FoodName: "salad", Calories: 250}, "salad")
		require.NoError(t, err)

		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, "a bowl of oats", first.OriginalQuery)

		day := svc.Day(at(13, 0))
		require.Len(t, day, 2)
		assert.Equal(t, second.ID, day[0].ID)
		assert.Equal(t, first.ID, day[1].ID)
		assert.Equal(t, 2, store.writeCount())

		raw, err := store.Get(ctx, service.KeyWeeklyLog)
		require.NoError(t, err)
		saved, err := models.ParseWeeklyLog(raw)
		require.NoError(t, err)
		assert.Len(t, saved["2024-05-10"], 2)
	})

	t.Run("should keep id and timestamp when replacing", func(t *testing.T) {
		svc := newLog(newFlakyStore())
		orig, err := svc.Add(ctx, at(8, 0), oats, "oats")
		require.NoError(t, err)

		updated, found, err := svc.Replace(ctx, at(9, 0), orig.ID, models.FoodAnalysis{FoodName: "oats with milk", Calories: 420, FiberG: 8}, "oats with milk")
		require.NoError(t, err)
		require.True(t, found)

		assert.Equal(t, orig.ID, updated.ID)
		assert.True(t, orig.Timestamp.Equal(updated.Timestamp))
		assert.Equal(t, "oats with milk", updated.OriginalQuery)
		assert.Equal(t, 420.0, updated.Calories)
		assert.Zero(t, updated.ProteinG)
	})

	t.Run("should treat replacing or removing an unknown id as a no-op", func(t *testing.T) {
		svc := newLog(newFlakyStore())
		entry, err := svc.Add(ctx, at(8, 0), oats, "oats")
		require.NoError(t, err)

		_, found, err := svc.Replace(ctx, at(9, 0), "gone", oats, "x")
		require.NoError(t, err)
		assert.False(t, found)

		found, err = svc.Remove(ctx, at(9, 0), "gone")
		require.NoError(t, err)
		assert.False(t, found)

		assert.Equal(t, models.DailyLog{entry}, svc.Day(at(9, 0)))
	})

	t.Run("should remove an entry", func(t *testing.T) {
		svc := newLog(newFlakyStore())
		entry, err := svc.Add(ctx, at(8, 0), oats, "oats")
		require.NoError(t, err)

		found, err := svc.Remove(ctx, at(9, 0), entry.ID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, svc.Day(at(9, 0)))
	})

	t.Run("should keep the change in memory when the write fails", func(t *testing.T) {
		store := newFlakyStore()
		svc := newLog(store)
		store.failWrites(errDiskFull)

		entry, err := svc.Add(ctx, at(8, 0), oats, "oats")
		require.Error(t, err)
		assert.True(t, service.IsSaveError(err))
		assert.ErrorIs(t, err, errDiskFull)

		day := svc.Day(at(8, 5))
		require.Len(t, day, 1)
		assert.Equal(t, entry.ID, day[0].ID)
	})

	t.Run("should prune on write as the days roll over", func(t *testing.T) {
		svc := newLog(newFlakyStore())
		_, err := svc.Add(ctx, at(8, 0), oats, "oats")
		require.NoError(t, err)

		later := at(8, 0).AddDate(0, 0, 8)
		_, err = svc.Add(ctx, later, oats, "oats again")
		require.NoError(t, err)

		snap := svc.Snapshot()
		assert.Len(t, snap, 1)
		assert.Contains(t, snap, "2024-05-18")
	})

	t.Run("should key days in the configured location", func(t *testing.T) {
		loc := time.FixedZone("UTC-5", -5*60*60)
		svc := service.NewLogService(newFlakyStore(), loc, 7, zap.NewNop())

		// 02:00 UTC on the 10th is still the 9th five hours west.
		_, err := svc.Add(ctx, at(2, 0), oats, "late snack")
		require.NoError(t, err)
		assert.Contains(t, svc.Snapshot(), "2024-05-09")
		assert.Equal(t, "2024-05-09", svc.TodayKey(at(2, 0)))
	})
}
