package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/articletrack/articletrack_app/internal/models"
	"github.com/articletrack/articletrack_app/internal/utils/mapping"
	"github.com/articletrack/articletrack_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCheckinRepository struct {
	BaseRepository
}

// newPgxCheckinRepository creates a new repository for checkin and workflow log data.
func newPgxCheckinRepository(pool *pgxpool.Pool) portsrepo.CheckinRepositoryWithTx {
	return &PgxCheckinRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCheckinRepository implements portsrepo.CheckinRepositoryWithTx
var _ portsrepo.CheckinRepositoryWithTx = (*PgxCheckinRepository)(nil)

const checkinColumns = `checkin_id, collection_id, article_id, attempt_ref, package_name, uploaded_at, submitted_by, status,
	       accepted_by, accepted_at, reviewed_by, reviewed_at, rejected_by, rejected_at, rejected_cause,
	       checkout_started_at, created_at, created_by, last_updated_at, last_updated_by`

// scanCheckin scans one checkin row in checkinColumns order.
func scanCheckin(row pgx.Row) (models.Checkin, error) {
	var m models.Checkin
	err := row.Scan(
		&m.CheckinID,
		&m.CollectionID,
		&m.ArticleID,
		&m.AttemptRef,
		&m.PackageName,
		&m.UploadedAt,
		&m.SubmittedBy,
		&m.Status,
		&m.AcceptedBy,
		&m.AcceptedAt,
		&m.ReviewedBy,
		&m.ReviewedAt,
		&m.RejectedBy,
		&m.RejectedAt,
		&m.RejectedCause,
		&m.CheckoutStartedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// isConcurrencyError reports whether the error is a store-level concurrency
// failure (serialization failure, deadlock or lock timeout) that the caller
// should surface as a conflict.
func isConcurrencyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// isUniqueViolation reports whether the error is a unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SaveCheckin inserts a new checkin. No workflow log entry is written here;
// the audit trail records transitions only.
func (r *PgxCheckinRepository) SaveCheckin(ctx context.Context, checkin domain.Checkin) error {
	checkin.Normalize()
	if err := checkin.Validate(); err != nil {
		return apperrors.NewAppError(400, "invalid checkin state", err)
	}

	modelCheckin := mapping.ToModelCheckin(checkin)
	checkinQuery := `
		INSERT INTO checkins (
			checkin_id, collection_id, article_id, attempt_ref, package_name, uploaded_at, submitted_by, status,
			accepted_by, accepted_at, reviewed_by, reviewed_at, rejected_by, rejected_at, rejected_cause,
			checkout_started_at, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.Pool.Exec(ctx, checkinQuery,
		modelCheckin.CheckinID,
		modelCheckin.CollectionID,
		modelCheckin.ArticleID,
		modelCheckin.AttemptRef,
		modelCheckin.PackageName,
		modelCheckin.UploadedAt,
		modelCheckin.SubmittedBy,
		modelCheckin.Status,
		modelCheckin.AcceptedBy,
		modelCheckin.AcceptedAt,
		modelCheckin.ReviewedBy,
		modelCheckin.ReviewedAt,
		modelCheckin.RejectedBy,
		modelCheckin.RejectedAt,
		modelCheckin.RejectedCause,
		modelCheckin.CheckoutStartedAt,
		modelCheckin.CreatedAt,
		modelCheckin.CreatedBy,
		modelCheckin.LastUpdatedAt,
		modelCheckin.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert checkin "+modelCheckin.CheckinID, err)
	}

	return nil
}

// FindCheckinByID retrieves a checkin by its ID, scoped to the collection.
func (r *PgxCheckinRepository) FindCheckinByID(ctx context.Context, collectionID, checkinID string) (*domain.Checkin, error) {
	query := `
		SELECT ` + checkinColumns + `
		FROM checkins
		WHERE collection_id = $1 AND checkin_id = $2;
	`
	m, err := scanCheckin(r.Pool.QueryRow(ctx, query, collectionID, checkinID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find checkin by ID "+checkinID, err)
	}

	domainCheckin := mapping.ToDomainCheckin(m)
	return &domainCheckin, nil
}

// ListCheckinsByCollection retrieves a paginated list of checkins for a collection
// using token-based pagination, newest upload first, optionally filtered by status.
func (r *PgxCheckinRepository) ListCheckinsByCollection(ctx context.Context, collectionID string, status *domain.CheckinStatus, limit int, nextToken *string) ([]domain.Checkin, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + checkinColumns + `
		FROM checkins
	`
	filterClause := `WHERE collection_id = $1`
	args := []interface{}{collectionID}

	if status != nil {
		args = append(args, string(*status))
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	// Ordering is crucial and must be stable. We use uploaded_at DESC with
	// created_at DESC as a tie-breaker.
	orderByClause := `ORDER BY uploaded_at DESC, created_at DESC`

	var rows pgx.Rows
	var err error

	if nextToken != nil && *nextToken != "" {
		lastUploadedAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres
		args = append(args, lastUploadedAt, lastCreatedAt)
		cursorClause := `AND (uploaded_at, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query checkins for collection "+collectionID, err)
	}
	defer rows.Close()

	modelCheckins := make([]models.Checkin, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanCheckin(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan checkin row for collection "+collectionID, scanErr)
		}
		modelCheckins = append(modelCheckins, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating checkin rows for collection "+collectionID, err)
	}

	// Determine the next token
	var nextTokenVal *string
	results := modelCheckins
	if len(modelCheckins) > limit {
		lastCheckin := modelCheckins[limit-1] // The actual last item of the current page
		newToken := pagination.EncodeToken(lastCheckin.UploadedAt, lastCheckin.CreatedAt)
		nextTokenVal = &newToken
		results = modelCheckins[:limit]
	}

	return mapping.ToDomainCheckinSlice(results), nextTokenVal, nil
}

// ListCheckinsByArticle retrieves all checkins of an article, newest upload first.
func (r *PgxCheckinRepository) ListCheckinsByArticle(ctx context.Context, collectionID, articleID string) ([]domain.Checkin, error) {
	query := `
		SELECT ` + checkinColumns + `
		FROM checkins
		WHERE collection_id = $1 AND article_id = $2
		ORDER BY uploaded_at DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, collectionID, articleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checkins for article "+articleID, err)
	}
	defer rows.Close()

	modelCheckins := []models.Checkin{}
	for rows.Next() {
		m, scanErr := scanCheckin(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan checkin row for article "+articleID, scanErr)
		}
		modelCheckins = append(modelCheckins, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating checkin rows for article "+articleID, err)
	}

	return mapping.ToDomainCheckinSlice(modelCheckins), nil
}

// MarkCheckoutStarted stamps the checkout hand-off time on an accepted checkin.
// Runs outside the workflow transaction; the stamp stays NULL if the hand-off
// never happened, which allows a later retry. The stamp is not a user action,
// so the audit fields are left untouched.
func (r *PgxCheckinRepository) MarkCheckoutStarted(ctx context.Context, collectionID, checkinID string, at time.Time) error {
	query := `
		UPDATE checkins
		SET checkout_started_at = $3
		WHERE collection_id = $1 AND checkin_id = $2 AND status = 'accepted' AND checkout_started_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, collectionID, checkinID, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark checkout started for checkin "+checkinID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockArticleCheckins locks the article row, serializing concurrent workflow
// transitions across all checkins of the same article.
func (r *PgxCheckinRepository) LockArticleCheckins(ctx context.Context, tx pgx.Tx, articleID string) error {
	query := `SELECT article_id FROM articles WHERE article_id = $1 FOR UPDATE;`
	var id string
	err := tx.QueryRow(ctx, query, articleID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if isConcurrencyError(err) {
			return apperrors.ErrConflict
		}
		return apperrors.NewAppError(500, "failed to lock article "+articleID, err)
	}
	return nil
}

// FindCheckinByIDForUpdate selects the checkin and locks its row for the
// duration of the transaction.
func (r *PgxCheckinRepository) FindCheckinByIDForUpdate(ctx context.Context, tx pgx.Tx, collectionID, checkinID string) (*domain.Checkin, error) {
	query := `
		SELECT ` + checkinColumns + `
		FROM checkins
		WHERE collection_id = $1 AND checkin_id = $2
		FOR UPDATE;
	`
	m, err := scanCheckin(tx.QueryRow(ctx, query, collectionID, checkinID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isConcurrencyError(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, apperrors.NewAppError(500, "failed to find checkin for update "+checkinID, err)
	}

	domainCheckin := mapping.ToDomainCheckin(m)
	return &domainCheckin, nil
}

// ArticleHasAcceptedCheckinInTx reports whether any checkin of the article
// holds status accepted, read under the transaction's locks.
func (r *PgxCheckinRepository) ArticleHasAcceptedCheckinInTx(ctx context.Context, tx pgx.Tx, articleID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM checkins WHERE article_id = $1 AND status = 'accepted');`
	var accepted bool
	if err := tx.QueryRow(ctx, query, articleID).Scan(&accepted); err != nil {
		return false, apperrors.NewAppError(500, "failed to check accepted checkins for article "+articleID, err)
	}
	return accepted, nil
}

// FindNoticesByCheckinIDInTx retrieves a checkin's notices for guard
// evaluation inside the workflow transaction. Service markers are included,
// since the aggregate error level needs them.
func (r *PgxCheckinRepository) FindNoticesByCheckinIDInTx(ctx context.Context, tx pgx.Tx, checkinID string) ([]domain.Notice, error) {
	query := `
		SELECT notice_id, checkin_id, stage, checkpoint, message, status, created_at
		FROM notices
		WHERE checkin_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := tx.Query(ctx, query, checkinID)
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

// ApplyTransition writes the mutated checkin and appends its workflow log
// entry in the same transaction.
func (r *PgxCheckinRepository) ApplyTransition(ctx context.Context, tx pgx.Tx, checkin domain.Checkin, log domain.CheckinWorkflowLog) error {
	checkin.Normalize()
	if err := checkin.Validate(); err != nil {
		return apperrors.NewAppError(400, "invalid checkin state", err)
	}

	modelCheckin := mapping.ToModelCheckin(checkin)
	query := `
		UPDATE checkins
		SET status = $3,
		    accepted_by = $4,
		    accepted_at = $5,
		    reviewed_by = $6,
		    reviewed_at = $7,
		    rejected_by = $8,
		    rejected_at = $9,
		    rejected_cause = $10,
		    last_updated_at = $11,
		    last_updated_by = $12
		WHERE collection_id = $1 AND checkin_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelCheckin.CollectionID,
		modelCheckin.CheckinID,
		modelCheckin.Status,
		modelCheckin.AcceptedBy,
		modelCheckin.AcceptedAt,
		modelCheckin.ReviewedBy,
		modelCheckin.ReviewedAt,
		modelCheckin.RejectedBy,
		modelCheckin.RejectedAt,
		modelCheckin.RejectedCause,
		modelCheckin.LastUpdatedAt,
		modelCheckin.LastUpdatedBy,
	)
	if err != nil {
		// The partial unique index on accepted checkins fires when two
		// transactions race to accept a checkin of the same article. That is
		// a losing race, not a duplicate resource.
		if isConcurrencyError(err) || isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return apperrors.NewAppError(500, "failed to update checkin "+modelCheckin.CheckinID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return insertWorkflowLog(ctx, tx, log)
}

// insertWorkflowLog appends one immutable audit record for a checkin.
func insertWorkflowLog(ctx context.Context, tx pgx.Tx, log domain.CheckinWorkflowLog) error {
	modelLog := mapping.ToModelWorkflowLog(log)
	query := `
		INSERT INTO checkin_workflow_logs (log_id, checkin_id, created_at, user_id, status, description)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		modelLog.LogID,
		modelLog.CheckinID,
		modelLog.CreatedAt,
		modelLog.UserID,
		modelLog.Status,
		modelLog.Description,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert workflow log for checkin "+modelLog.CheckinID, err)
	}
	return nil
}

// ListWorkflowLogsByCheckinID retrieves a checkin's audit trail in
// chronological ascending order.
func (r *PgxCheckinRepository) ListWorkflowLogsByCheckinID(ctx context.Context, checkinID string) ([]domain.CheckinWorkflowLog, error) {
	query := `
		SELECT log_id, checkin_id, created_at, user_id, status, description
		FROM checkin_workflow_logs
		WHERE checkin_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, checkinID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflow logs for checkin "+checkinID, err)
	}
	defer rows.Close()

	modelLogs := []models.CheckinWorkflowLog{}
	for rows.Next() {
		var m models.CheckinWorkflowLog
		if scanErr := rows.Scan(&m.LogID, &m.CheckinID, &m.CreatedAt, &m.UserID, &m.Status, &m.Description); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan workflow log row for checkin "+checkinID, scanErr)
		}
		modelLogs = append(modelLogs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating workflow log rows for checkin "+checkinID, err)
	}

	return mapping.ToDomainWorkflowLogSlice(modelLogs), nil
}
