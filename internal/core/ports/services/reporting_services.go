package services

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/dto"
)

// ReportingService defines operations for generating dashboard data
type ReportingService interface {
	// CollectionDashboard retrieves per-status checkin counts and article
	// totals for a collection.
	CollectionDashboard(ctx context.Context, collectionID string, userID string) (*dto.CollectionDashboardResponse, error)
}
