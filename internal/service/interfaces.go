package service

import (
	"context"
	"time"

	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/nutrition"
)

// Inferencer estimates nutrition facts and daily goals. Implementations make
// one request per call and do not retry.
type Inferencer interface {
	AnalyzeFood(ctx context.Context, description string) (*models.FoodAnalysis, error)
	RecommendGoals(ctx context.Context, profile models.Profile) (*models.Goals, error)
}

// ITrackerService defines the operations exposed to the HTTP and CLI shells
type ITrackerService interface {
	Submit(ctx context.Context, query, editID string, now time.Time) (*models.Entry, error)
	BeginEdit(now time.Time, id string) (models.Entry, error)
	Remove(ctx context.Context, id string, now time.Time) error
	Dashboard(now time.Time) *Dashboard
	History(now time.Time) []nutrition.DaySummary
	Goals() models.Goals
	ApplyGoals(ctx context.Context, goals models.Goals) (models.Goals, error)
	Profile() models.Profile
	SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	RecommendGoals(ctx context.Context, profile models.Profile) (*models.Goals, error)
	Busy() bool
}
