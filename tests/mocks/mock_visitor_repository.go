package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Artin0123/API-backend/internal/domain"
)

type MockVisitorRepository struct {
	mock.Mock
}

func (m *MockVisitorRepository) Upsert(ctx context.Context, info *domain.ClientInfo) (*domain.UpsertResult, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpsertResult), args.Error(1)
}

func (m *MockVisitorRepository) List(ctx context.Context, limit, offset int) ([]domain.VisitorRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VisitorRecord), args.Error(1)
}
