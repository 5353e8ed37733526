package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/nutrition"
	"github.com/pageza/nutrilog/internal/storage"
)

// LogService owns the weekly log. Every mutation prunes the window, applies
// the change and persists the whole log before returning.
type LogService struct {
	mu     sync.Mutex
	store  storage.Store
	loc    *time.Location
	days   int
	logger *zap.Logger
	log    models.WeeklyLog
}

// NewLogService creates an empty log. Date keys are computed in loc and days
// bounds the retention window.
func NewLogService(store storage.Store, loc *time.Location, days int, logger *zap.Logger) *LogService {
	if loc == nil {
		loc = time.Local
	}
	if days <= 0 {
		days = nutrition.RetentionDays
	}
	return &LogService{
		store:  store,
		loc:    loc,
		days:   days,
		logger: logging.OrNop(logger),
		log:    models.WeeklyLog{},
	}
}

// Load replaces the in-memory log with the persisted one, pruned to the
// window, and writes the pruned log back. On a *LoadError the log is left
// empty and nothing is written.
func (s *LogService) Load(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := loadRecord(ctx, s.store, KeyWeeklyLog, models.ParseWeeklyLog)
	if err != nil {
		s.log = models.WeeklyLog{}
		return err
	}

	s.log = nutrition.PruneWindow(now.In(s.loc), log, s.days)
	s.logger.Debug("loaded weekly log", zap.Int("days", len(s.log)), zap.Int("pruned", len(log)-len(s.log)))
	return s.persist(ctx)
}

// TodayKey returns the date key of now.
func (s *LogService) TodayKey(now time.Time) string {
	return nutrition.DateKey(now.In(s.loc))
}

// Day returns a copy of today's entries, newest first.
func (s *LogService) Day(now time.Time) models.DailyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(models.DailyLog{}, s.log[s.TodayKey(now)]...)
}

// Snapshot returns a copy of the whole weekly log.
func (s *LogService) Snapshot() models.WeeklyLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(models.WeeklyLog, len(s.log))
	for k, day := range s.log {
		out[k] = append(models.DailyLog{}, day...)
	}
	return out
}

// Entry looks up an entry of today's log.
func (s *LogService) Entry(now time.Time, id string) (models.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nutrition.Find(s.log, s.TodayKey(now), id)
}

// Add creates a new entry from an analysis and appends it to today's log.
// The entry is returned even when persisting fails with a *SaveError.
func (s *LogService) Add(ctx context.Context, now time.Time, analysis models.FoodAnalysis, query string) (models.Entry, error) {
	entry := models.Entry{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
	}.WithAnalysis(analysis, query)

	err := s.Append(ctx, now, entry)
	return entry, err
}

// Append inserts entry into today's log.
func (s *LogService) Append(ctx context.Context, now time.Time, entry models.Entry) error {
	return s.mutate(ctx, now, func(log models.WeeklyLog, key string) models.WeeklyLog {
		return nutrition.Append(log, key, entry)
	})
}

// Replace swaps the nutrition fields and query of today's entry id. When the
// entry no longer exists the log is unchanged and found is false.
func (s *LogService) Replace(ctx context.Context, now time.Time, id string, analysis models.FoodAnalysis, query string) (entry models.Entry, found bool, err error) {
	err = s.mutate(ctx, now, func(log models.WeeklyLog, key string) models.WeeklyLog {
		var out models.WeeklyLog
		out, found = nutrition.Replace(log, key, id, func(e models.Entry) models.Entry {
			return e.WithAnalysis(analysis, query)
		})
		if found {
			entry, _ = nutrition.Find(out, key, id)
		}
		return out
	})
	return entry, found, err
}

// Remove deletes today's entry id. Removing an absent entry is a no-op.
func (s *LogService) Remove(ctx context.Context, now time.Time, id string) (found bool, err error) {
	err = s.mutate(ctx, now, func(log models.WeeklyLog, key string) models.WeeklyLog {
		var out models.WeeklyLog
		out, found = nutrition.Remove(log, key, id)
		return out
	})
	return found, err
}

func (s *LogService) mutate(ctx context.Context, now time.Time, apply func(models.WeeklyLog, string) models.WeeklyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := now.In(s.loc)
	pruned := nutrition.PruneWindow(local, s.log, s.days)
	s.log = apply(pruned, nutrition.DateKey(local))
	return s.persist(ctx)
}

// persist must be called with mu held.
func (s *LogService) persist(ctx context.Context) error {
	err := saveRecord(ctx, s.store, KeyWeeklyLog, s.log.Encode)
	if err != nil {
		s.logger.Error("failed to persist weekly log", zap.Error(err))
	}
	return err
}
