package services

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/dto"
)

// CheckinReaderSvc defines read operations for checkin data
type CheckinReaderSvc interface {
	// GetCheckinByID retrieves a specific checkin by its ID.
	GetCheckinByID(ctx context.Context, collectionID string, checkinID string, requestingUserID string) (*domain.Checkin, error)

	// ListCheckins retrieves a paginated list of checkins in a collection.
	ListCheckins(ctx context.Context, collectionID string, requestingUserID string, params dto.ListCheckinsParams) (*dto.ListCheckinsResponse, error)

	// ListCheckinsByArticle retrieves all checkins of an article, newest upload first.
	ListCheckinsByArticle(ctx context.Context, collectionID string, articleID string, requestingUserID string) ([]domain.Checkin, error)

	// GetCheckinErrorLevel computes the aggregate error level of a checkin's notices.
	GetCheckinErrorLevel(ctx context.Context, collectionID string, checkinID string, requestingUserID string) (domain.ErrorLevel, error)

	// ListWorkflowHistory retrieves a checkin's audit trail in chronological order.
	ListWorkflowHistory(ctx context.Context, collectionID string, checkinID string, requestingUserID string) ([]domain.CheckinWorkflowLog, error)
}

// CheckinWorkflowSvc defines the workflow transition operations. Each call
// runs one transition atomically and appends its audit log entry.
type CheckinWorkflowSvc interface {
	// SendToPending moves a rejected checkin back to pending.
	SendToPending(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error)

	// SendToReview moves a pending checkin to review.
	SendToReview(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error)

	// DoReview records a review on a checkin already in review.
	DoReview(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error)

	// Accept accepts a reviewed checkin and triggers checkout asynchronously.
	Accept(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error)

	// Reject rejects a checkin in review with a mandatory cause.
	Reject(ctx context.Context, collectionID string, checkinID string, actorUserID string, cause string) (*domain.Checkin, error)
}

// CheckinIngestSvc defines operations used by the external validation
// pipeline, authenticated via API tokens.
type CheckinIngestSvc interface {
	// CreateCheckin registers a new package deposit attempt. The checkin
	// starts in pending with a creation log entry.
	CreateCheckin(ctx context.Context, collectionID string, req dto.CreateCheckinRequest, creatorUserID string) (*domain.Checkin, error)

	// AddNotice appends a validation notice to a checkin.
	AddNotice(ctx context.Context, collectionID string, checkinID string, req dto.CreateNoticeRequest) (*domain.Notice, error)

	// ListNotices retrieves a checkin's notices, optionally including serv_* markers.
	ListNotices(ctx context.Context, collectionID string, checkinID string, includeServiceMarkers bool) ([]domain.Notice, error)
}

// CheckinSvcFacade combines all checkin-related service interfaces
// This is a facade for clients that need access to all operations
type CheckinSvcFacade interface {
	CheckinReaderSvc
	CheckinWorkflowSvc
	CheckinIngestSvc
}
