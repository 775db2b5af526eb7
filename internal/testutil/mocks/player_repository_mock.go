package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gearguessr/internal/models"
)

// MockPlayerRepository is a mock implementation of repository.PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Get(ctx context.Context, userID string) (*models.PlayerRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerRecord), args.Error(1)
}

func (m *MockPlayerRepository) Put(ctx context.Context, record models.PlayerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPlayerRepository) AtomicApply(ctx context.Context, userID string, apply func(*models.PlayerRecord) error) (*models.PlayerRecord, error) {
	args := m.Called(ctx, userID, apply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerRecord), args.Error(1)
}

func (m *MockPlayerRepository) Rekey(ctx context.Context, oldUserID, newUserID string) error {
	args := m.Called(ctx, oldUserID, newUserID)
	return args.Error(0)
}

func (m *MockPlayerRepository) FindByEmail(ctx context.Context, email string) (*models.PlayerRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerRecord), args.Error(1)
}

func (m *MockPlayerRepository) UsernameExists(ctx context.Context, username string, excludeUserID string) (bool, error) {
	args := m.Called(ctx, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayerRecord), args.Error(1)
}

func (m *MockPlayerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPlayerRepository) UpdateLastActivity(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}
