package pgsql

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	db *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for dashboard queries.
func newPgxReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{db: db}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetCheckinStatusCounts retrieves per-status checkin counts for a collection.
// Statuses with no checkins are absent from the result map.
func (r *PgxReportingRepository) GetCheckinStatusCounts(ctx context.Context, collectionID string) (map[domain.CheckinStatus]int64, error) {
	query := `
		SELECT c.status, COUNT(*)
		FROM checkins c
		JOIN articles a ON c.article_id = a.article_id
		WHERE a.collection_id = $1
		GROUP BY c.status;
	`
	rows, err := r.db.Query(ctx, query, collectionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checkin status counts for collection "+collectionID, err)
	}
	defer rows.Close()

	counts := make(map[domain.CheckinStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan checkin status count row", scanErr)
		}
		counts[domain.CheckinStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating checkin status count rows", err)
	}

	return counts, nil
}

// GetArticleCounts retrieves total and accepted article counts for a collection.
// An article counts as accepted when at least one of its checkins is accepted.
func (r *PgxReportingRepository) GetArticleCounts(ctx context.Context, collectionID string) (int64, int64, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (
		           WHERE EXISTS (
		               SELECT 1 FROM checkins c
		               WHERE c.article_id = a.article_id AND c.status = 'accepted'
		           )
		       )
		FROM articles a
		WHERE a.collection_id = $1;
	`
	var total, accepted int64
	if err := r.db.QueryRow(ctx, query, collectionID).Scan(&total, &accepted); err != nil {
		return 0, 0, apperrors.NewAppError(500, "failed to query article counts for collection "+collectionID, err)
	}
	return total, accepted, nil
}
