package repositories

import (
	"context"
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CheckinReader defines read operations for checkin data. Every query is
// scoped to an explicit collection ID.
type CheckinReader interface {
	// FindCheckinByID retrieves a specific checkin by its unique identifier.
	FindCheckinByID(ctx context.Context, collectionID, checkinID string) (*domain.Checkin, error)

	// ListCheckinsByCollection retrieves a paginated list of checkins, newest
	// first, optionally filtered by status, using token-based pagination.
	ListCheckinsByCollection(ctx context.Context, collectionID string, status *domain.CheckinStatus, limit int, nextToken *string) ([]domain.Checkin, *string, error)

	// ListCheckinsByArticle retrieves all checkins of an article, newest upload first.
	ListCheckinsByArticle(ctx context.Context, collectionID, articleID string) ([]domain.Checkin, error)
}

// CheckinWriter defines write operations for checkin data
type CheckinWriter interface {
	// SaveCheckin persists a new checkin. The repository normalizes and
	// validates field clearance against the status before writing. Creation
	// writes no workflow log entry; the audit trail records transitions only.
	SaveCheckin(ctx context.Context, checkin domain.Checkin) error

	// MarkCheckoutStarted stamps the checkout hand-off time. This happens
	// outside the workflow transaction by design.
	MarkCheckoutStarted(ctx context.Context, collectionID, checkinID string, at time.Time) error
}

// CheckinTransitionSupport defines the transaction-scoped operations a
// workflow transition is built from. All of them run against the same pgx.Tx
// so the read-validate-write-log sequence is atomic.
type CheckinTransitionSupport interface {
	// LockArticleCheckins locks the article row, serializing concurrent
	// transitions across all checkins of the same article.
	LockArticleCheckins(ctx context.Context, tx pgx.Tx, articleID string) error

	// FindCheckinByIDForUpdate selects the checkin and locks its row.
	FindCheckinByIDForUpdate(ctx context.Context, tx pgx.Tx, collectionID, checkinID string) (*domain.Checkin, error)

	// ArticleHasAcceptedCheckinInTx reports whether any checkin of the
	// article holds status accepted, read under the transaction's locks.
	ArticleHasAcceptedCheckinInTx(ctx context.Context, tx pgx.Tx, articleID string) (bool, error)

	// FindNoticesByCheckinIDInTx retrieves the checkin's notices for guard
	// evaluation inside the transaction.
	FindNoticesByCheckinIDInTx(ctx context.Context, tx pgx.Tx, checkinID string) ([]domain.Notice, error)

	// ApplyTransition writes the mutated checkin and appends its workflow log
	// entry in the same transaction.
	ApplyTransition(ctx context.Context, tx pgx.Tx, checkin domain.Checkin, log domain.CheckinWorkflowLog) error
}

// WorkflowLogReader defines read operations for the checkin audit trail.
type WorkflowLogReader interface {
	// ListWorkflowLogsByCheckinID retrieves a checkin's audit trail in
	// chronological ascending order.
	ListWorkflowLogsByCheckinID(ctx context.Context, checkinID string) ([]domain.CheckinWorkflowLog, error)
}

// CheckinRepositoryFacade combines all checkin-related repository interfaces
// This is a facade for clients that need access to all operations
type CheckinRepositoryFacade interface {
	CheckinReader
	CheckinWriter
	CheckinTransitionSupport
	WorkflowLogReader
}

// CheckinRepositoryWithTx extends CheckinRepositoryFacade with transaction capabilities
type CheckinRepositoryWithTx interface {
	CheckinRepositoryFacade
	TransactionManager
}
