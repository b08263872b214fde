package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Artin0123/API-backend/internal/domain"
)

type MockCollectorService struct {
	mock.Mock
}

func (m *MockCollectorService) RecordVisit(ctx context.Context, req domain.VisitRequest) (*domain.VisitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisitResult), args.Error(1)
}

func (m *MockCollectorService) ListVisitors(ctx context.Context, limit, offset int) ([]domain.VisitorRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VisitorRecord), args.Error(1)
}
