package pgsql

import (
	"context"
	"errors"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/articletrack/articletrack_app/internal/models"
	"github.com/articletrack/articletrack_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNoticeRepository struct {
	db *pgxpool.Pool
}

func newPgxNoticeRepository(db *pgxpool.Pool) portsrepo.NoticeRepositoryFacade {
	return &PgxNoticeRepository{db: db}
}

// Ensure PgxNoticeRepository implements portsrepo.NoticeRepositoryFacade
var _ portsrepo.NoticeRepositoryFacade = (*PgxNoticeRepository)(nil)

// SaveNotice appends a new notice. Notices are never updated or deleted.
func (r *PgxNoticeRepository) SaveNotice(ctx context.Context, notice domain.Notice) error {
	m := mapping.ToModelNotice(notice)
	query := `
		INSERT INTO notices (notice_id, checkin_id, stage, checkpoint, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		m.NoticeID,
		m.CheckinID,
		m.Stage,
		m.Checkpoint,
		m.Message,
		m.Status,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert notice "+m.NoticeID, err)
	}
	return nil
}

// FindNoticesByCheckinID retrieves a checkin's notices, newest first. When
// includeServiceMarkers is false, serv_* status markers are filtered out.
func (r *PgxNoticeRepository) FindNoticesByCheckinID(ctx context.Context, checkinID string, includeServiceMarkers bool) ([]domain.Notice, error) {
	query := `
		SELECT notice_id, checkin_id, stage, checkpoint, message, status, created_at
		FROM notices
		WHERE checkin_id = $1
	`
	if !includeServiceMarkers {
		query += ` AND lower(status) NOT LIKE 'serv\_%'`
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query, checkinID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notices for checkin "+checkinID, err)
	}
	defer rows.Close()

	modelNotices := []models.Notice{}
	for rows.Next() {
		var m models.Notice
		if scanErr := rows.Scan(&m.NoticeID, &m.CheckinID, &m.Stage, &m.Checkpoint, &m.Message, &m.Status, &m.CreatedAt); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan notice row for checkin "+checkinID, scanErr)
		}
		modelNotices = append(modelNotices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating notice rows for checkin "+checkinID, err)
	}

	return mapping.ToDomainNoticeSlice(modelNotices), nil
}
