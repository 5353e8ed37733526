package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutrilog/internal/models"
	"github.com/pageza/nutrilog/internal/nutrition"
	"github.com/pageza/nutrilog/internal/service"
)

// MockTrackerService is a mock implementation of service.ITrackerService
type MockTrackerService struct {
	mock.Mock
}

func (m *MockTrackerService) Submit(ctx context.Context, query, editID string, now time.Time) (*models.Entry, error) {
	args := m.Called(ctx, query, editID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockTrackerService) BeginEdit(now time.Time, id string) (models.Entry, error) {
	args := m.Called(now, id)
	return args.Get(0).(models.Entry), args.Error(1)
}

func (m *MockTrackerService) Remove(ctx context.Context, id string, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockTrackerService) Dashboard(now time.Time) *service.Dashboard {
	args := m.Called(now)
	return args.Get(0).(*service.Dashboard)
}

func (m *MockTrackerService) History(now time.Time) []nutrition.DaySummary {
	args := m.Called(now)
	return args.Get(0).([]nutrition.DaySummary)
}

func (m *MockTrackerService) Goals() models.Goals {
	args := m.Called()
	return args.Get(0).(models.Goals)
}

func (m *MockTrackerService) ApplyGoals(ctx context.Context, goals models.Goals) (models.Goals, error) {
	args := m.Called(ctx, goals)
	return args.Get(0).(models.Goals), args.Error(1)
}

func (m *MockTrackerService) Profile() models.Profile {
	args := m.Called()
	return args.Get(0).(models.Profile)
}

func (m *MockTrackerService) SaveProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(models.Profile), args.Error(1)
}

func (m *MockTrackerService) RecommendGoals(ctx context.Context, profile models.Profile) (*models.Goals, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Goals), args.Error(1)
}

func (m *MockTrackerService) Busy() bool {
	args := m.Called()
	return args.Bool(0)
}
