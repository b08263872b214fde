package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Artin0123/API-backend/internal/domain"
	"github.com/Artin0123/API-backend/internal/identity"
	"github.com/Artin0123/API-backend/internal/logger"
)

const (
	defaultListLimit    = 50
	defaultQueryTimeout = 5 * time.Second
)

type VisitorRepository interface {
	Upsert(ctx context.Context, info *domain.ClientInfo) (*domain.UpsertResult, error)
	List(ctx context.Context, limit, offset int) ([]domain.VisitorRecord, error)
}

type ClientResolver interface {
	Resolve(req domain.VisitRequest) domain.ClientInfo
}

// CollectorService ties the pipeline together: resolve the fingerprint,
// derive the correlation key, persist the hit.
type CollectorService struct {
	resolver     ClientResolver
	visitors     VisitorRepository
	queryTimeout time.Duration
}

func NewCollectorService(resolver ClientResolver, visitors VisitorRepository, queryTimeout time.Duration) *CollectorService {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &CollectorService{
		resolver:     resolver,
		visitors:     visitors,
		queryTimeout: queryTimeout,
	}
}

func (s *CollectorService) RecordVisit(ctx context.Context, req domain.VisitRequest) (*domain.VisitResult, error) {
	info := s.resolver.Resolve(req)
	key := identity.ComputeKey(info.IPAddress, info.SourceType)

	log := logger.FromContext(ctx)
	log.Info("Visit resolved",
		"visitor_key", key,
		"source_type", string(info.SourceType),
		"device_type", info.DeviceType,
		"country", info.Country,
	)

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	result, err := s.visitors.Upsert(storeCtx, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to record visit: %w", err)
	}

	log.Info("Visit recorded",
		"visitor_key", key,
		"visitor_number", result.VisitorNumber,
		"new_visitor", result.NewVisitor,
	)

	return &domain.VisitResult{
		VisitorNumber: result.VisitorNumber,
		NewVisitor:    result.NewVisitor,
		VisitorKey:    key,
	}, nil
}

func (s *CollectorService) ListVisitors(ctx context.Context, limit, offset int) ([]domain.VisitorRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	visitors, err := s.visitors.List(storeCtx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	return visitors, nil
}
