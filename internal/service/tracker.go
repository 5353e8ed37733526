package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/nutrition"
	"github.com/pageza/nutrilog/internal/storage"
)

// Dashboard is everything the shells render for today.
type Dashboard struct {
	Date     string                     `json:"date"`
	Entries  models.DailyLog            `json:"entries"`
	Totals   models.Totals              `json:"totals"`
	Score    int                        `json:"score"`
	Progress []nutrition.MetricProgress `json:"progress"`
	Goals    models.Goals               `json:"goals"`
	History  []nutrition.DaySummary     `json:"history"`
}

// TrackerService ties the stores to the inference service. At most one
// inference request runs at a time; a second caller gets ErrBusy instead of
// waiting.
type TrackerService struct {
	log     *LogService
	goals   *GoalService
	profile *ProfileService
	infer   Inferencer
	busy    *semaphore.Weighted
	pending atomic.Bool
	logger  *zap.Logger
}

// NewTrackerService creates a tracker over the given stores.
func NewTrackerService(log *LogService, goals *GoalService, profile *ProfileService, infer Inferencer, logger *zap.Logger) *TrackerService {
	return &TrackerService{
		log:     log,
		goals:   goals,
		profile: profile,
		infer:   infer,
		busy:    semaphore.NewWeighted(1),
		logger:  logging.OrNop(logger),
	}
}

// Open loads every store. Load failures never stop the tracker: each store
// falls back to its empty or default state. Errors other than a missing key
// are joined and returned so the caller can show a notice.
func (s *TrackerService) Open(ctx context.Context, now time.Time) error {
	var errs []error
	for _, err := range []error{
		s.log.Load(ctx, now),
		s.goals.Load(ctx),
		s.profile.Load(ctx),
	} {
		if err == nil {
			continue
		}
		logLoadFailure(s.logger, err)
		if !errors.Is(err, storage.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Busy reports whether an inference request is outstanding.
func (s *TrackerService) Busy() bool {
	return s.pending.Load()
}

// acquire claims the inference slot. The returned release must be called on
// every path.
func (s *TrackerService) acquire() (func(), error) {
	if !s.busy.TryAcquire(1) {
		return nil, ErrBusy
	}
	s.pending.Store(true)
	return func() {
		s.pending.Store(false)
		s.busy.Release(1)
	}, nil
}

// Submit analyzes query and logs the result. With a non-empty editID the
// analysis replaces that entry of today's log instead; if the entry was
// deleted while the request was outstanding the result is discarded and
// Submit returns a nil entry and nil error. A *SaveError is returned together
// with the entry when the log could not be persisted.
func (s *TrackerService) Submit(ctx context.Context, query, editID string, now time.Time) (*models.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if s.infer == nil {
		return nil, &InferenceError{Op: "analyze food", Err: ErrNoInference}
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	analysis, err := s.infer.AnalyzeFood(ctx, query)
	if err != nil {
		s.logger.Warn("food analysis failed", zap.String("query", query), zap.Error(err))
		if !IsInferenceError(err) {
			err = &InferenceError{Op: "analyze food", Err: err}
		}
		return nil, err
	}

	if editID == "" {
		entry, err := s.log.Add(ctx, now, *analysis, query)
		s.logger.Info("logged entry", zap.String("id", entry.ID), zap.String("food", entry.FoodName))
		return &entry, err
	}

	entry, found, err := s.log.Replace(ctx, now, editID, *analysis, query)
	if !found {
		s.logger.Info("edited entry no longer exists, discarding analysis", zap.String("id", editID))
		return nil, err
	}
	s.logger.Info("updated entry", zap.String("id", entry.ID), zap.String("food", entry.FoodName))
	return &entry, err
}

// BeginEdit returns today's entry with the given id so its original query
// can be edited and resubmitted.
func (s *TrackerService) BeginEdit(now time.Time, id string) (models.Entry, error) {
	entry, ok := s.log.Entry(now, id)
	if !ok {
		return models.Entry{}, ErrNotFound
	}
	return entry, nil
}

// Remove deletes today's entry id. Removing an absent entry succeeds.
func (s *TrackerService) Remove(ctx context.Context, id string, now time.Time) error {
	found, err := s.log.Remove(ctx, now, id)
	if found {
		s.logger.Info("removed entry", zap.String("id", id))
	}
	return err
}

// Dashboard assembles today's view.
func (s *TrackerService) Dashboard(now time.Time) *Dashboard {
	snapshot := s.log.Snapshot()
	key := s.log.TodayKey(now)
	day := snapshot[key]
	if day == nil {
		day = models.DailyLog{}
	}
	goals := s.goals.Get()
	totals := nutrition.Totals(day)

	return &Dashboard{
		Date:     key,
		Entries:  day,
		Totals:   totals,
		Score:    nutrition.Score(totals, goals),
		Progress: nutrition.Progress(totals, goals),
		Goals:    goals,
		History:  nutrition.History(snapshot, key),
	}
}

// History summarizes the retained days before today.
func (s *TrackerService) History(now time.Time) []nutrition.DaySummary {
	return nutrition.History(s.log.Snapshot(), s.log.TodayKey(now))
}

// Goals returns the current targets.
func (s *TrackerService) Goals() models.Goals {
	return s.goals.Get()
}

// ApplyGoals stores new targets.
func (s *TrackerService) ApplyGoals(ctx context.Context, goals models.Goals) (models.Goals, error) {
	return s.goals.Save(ctx, goals)
}

// Profile returns the current profile.
func (s *TrackerService) Profile() models.Profile {
	return s.profile.Get()
}

// SaveProfile validates and stores profile.
func (s *TrackerService) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	return s.profile.Save(ctx, profile)
}

// RecommendGoals saves profile and asks the inference service for targets
// suited to it. It shares the busy slot with Submit and does not change the
// saved goals. A *SaveError from storing the profile is returned together
// with the recommendation.
func (s *TrackerService) RecommendGoals(ctx context.Context, profile models.Profile) (*models.Goals, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if s.infer == nil {
		return nil, &InferenceError{Op: "recommend goals", Err: ErrNoInference}
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	_, saveErr := s.profile.Save(ctx, profile)

	goals, err := s.infer.RecommendGoals(ctx, profile)
	if err != nil {
		s.logger.Warn("goal recommendation failed", zap.Error(err))
		if !IsInferenceError(err) {
			err = &InferenceError{Op: "recommend goals", Err: err}
		}
		return nil, err
	}
	return goals, saveErr
}
