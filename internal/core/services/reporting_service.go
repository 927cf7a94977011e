package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
)

// reportingService provides dashboard aggregates per collection.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption configures the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingCollectionAuthorizer sets the collection authorizer
func WithReportingCollectionAuthorizer(authorizer portssvc.CollectionAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.CollectionAuthorizer = authorizer
	}
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, opts ...ReportingServiceOption) portssvc.ReportingService {
	s := &reportingService{reportingRepo: reportingRepo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// CollectionDashboard retrieves per-status checkin counts and article totals.
func (s *reportingService) CollectionDashboard(ctx context.Context, collectionID string, userID string) (*dto.CollectionDashboardResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	statusCounts, err := s.reportingRepo.GetCheckinStatusCounts(ctx, collectionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch checkin status counts",
			slog.String("collection_id", collectionID))
		return nil, fmt.Errorf("failed to retrieve checkin counts: %w", err)
	}

	totalArticles, acceptedArticles, err := s.reportingRepo.GetArticleCounts(ctx, collectionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch article counts",
			slog.String("collection_id", collectionID))
		return nil, fmt.Errorf("failed to retrieve article counts: %w", err)
	}

	resp := dto.ToCollectionDashboardResponse(collectionID, statusCounts, totalArticles, acceptedArticles)
	return &resp, nil
}
