package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutrilog/internal/models"
)

// MockInferencer is a mock implementation of service.Inferencer
type MockInferencer struct {
	mock.Mock
}

func (m *MockInferencer) AnalyzeFood(ctx context.Context, description string) (*models.FoodAnalysis, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodAnalysis), args.Error(1)
}

func (m *MockInferencer) RecommendGoals(ctx context.Context, profile models.Profile) (*models.Goals, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Goals), args.Error(1)
}
