package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gearguessr/internal/models"
)

// MockChallengeRepository is a mock implementation of repository.ChallengeRepository
type MockChallengeRepository struct {
	mock.Mock
}

func (m *MockChallengeRepository) Insert(ctx context.Context, challenge models.Challenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockChallengeRepository) Get(ctx context.Context, challengeID string) (*models.Challenge, error) {
	args := m.Called(ctx, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) UpdateStatus(ctx context.Context, challengeID string, status models.ChallengeStatus, at time.Time) error {
	args := m.Called(ctx, challengeID, status, at)
	return args.Error(0)
}

func (m *MockChallengeRepository) ListForPlayer(ctx context.Context, userID string, limit int) ([]models.Challenge, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Challenge), args.Error(1)
}

func (m *MockChallengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
