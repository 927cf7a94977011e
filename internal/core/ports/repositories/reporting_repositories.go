package repositories

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// ReportingRepository defines operations for retrieving dashboard data
type ReportingRepository interface {
	// GetCheckinStatusCounts retrieves per-status checkin counts for a collection.
	GetCheckinStatusCounts(ctx context.Context, collectionID string) (map[domain.CheckinStatus]int64, error)

	// GetArticleCounts retrieves total and accepted article counts for a collection.
	GetArticleCounts(ctx context.Context, collectionID string) (total int64, accepted int64, err error)
}
