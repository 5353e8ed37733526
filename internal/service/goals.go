package service

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/logging"
	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/storage"
)

// GoalService holds the daily targets, falling back to models.DefaultGoals.
type GoalService struct {
	mu     sync.RWMutex
	store  storage.Store
	logger *zap.Logger
	goals  models.Goals
}

// NewGoalService creates a service holding the default goals.
func NewGoalService(store storage.Store, logger *zap.Logger) *GoalService {
	return &GoalService{store: store, logger: logging.OrNop(logger), goals: models.DefaultGoals}
}

// Load reads the saved goals. On a *LoadError the defaults are kept.
func (s *GoalService) Load(ctx context.Context) error {
	goals, err := loadRecord(ctx, s.store, KeyGoals, models.ParseGoals)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.goals = models.DefaultGoals
		return err
	}
	s.goals = NormalizeGoals(goals)
	return nil
}

// Get returns the current goals.
func (s *GoalService) Get() models.Goals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals
}

// Save normalizes and stores goals. The new goals are kept in memory even
// when the write fails.
func (s *GoalService) Save(ctx context.Context, goals models.Goals) (models.Goals, error) {
	goals = NormalizeGoals(goals)

	s.mu.Lock()
	s.goals = goals
	s.mu.Unlock()

	err := saveRecord(ctx, s.store, KeyGoals, func() (string, error) {
		data, err := json.Marshal(goals)
		return string(data), err
	})
	if err != nil {
		s.logger.Error("failed to persist goals", zap.Error(err))
	}
	return goals, err
}

// NormalizeGoals rounds every target to a whole number. Negative and
// non-finite targets become 0, meaning no target.
func NormalizeGoals(g models.Goals) models.Goals {
	return models.Goals{
		Calories: wholeTarget(g.Calories),
		ProteinG: wholeTarget(g.ProteinG),
		CarbsG:   wholeTarget(g.CarbsG),
		FatG:     wholeTarget(g.FatG),
		FiberG:   wholeTarget(g.FiberG),
	}
}

func wholeTarget(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Round(v)
}
