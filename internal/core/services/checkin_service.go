package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
)

// checkoutRequestTimeout bounds the post-commit checkout hand-off call.
const checkoutRequestTimeout = 30 * time.Second

// checkinService provides core checkin and workflow transition operations.
type checkinService struct {
	BaseService
	checkinRepo   portsrepo.CheckinRepositoryWithTx
	noticeRepo    portsrepo.NoticeRepositoryFacade
	articleRepo   portsrepo.ArticleRepositoryFacade
	userSvc       portssvc.UserReaderSvc
	collectionSvc portssvc.CollectionSvcFacade
	notifier      portssvc.WorkflowNotifier // optional
	checkout      portssvc.CheckoutClient   // optional
}

// NewCheckinService creates a new CheckinService.
func NewCheckinService(
	checkinRepo portsrepo.CheckinRepositoryWithTx,
	noticeRepo portsrepo.NoticeRepositoryFacade,
	articleRepo portsrepo.ArticleRepositoryFacade,
	userSvc portssvc.UserReaderSvc,
	collectionSvc portssvc.CollectionSvcFacade,
	notifier portssvc.WorkflowNotifier,
	checkout portssvc.CheckoutClient,
) portssvc.CheckinSvcFacade {
	return &checkinService{
		BaseService:   BaseService{CollectionAuthorizer: collectionSvc},
		checkinRepo:   checkinRepo,
		noticeRepo:    noticeRepo,
		articleRepo:   articleRepo,
		userSvc:       userSvc,
		collectionSvc: collectionSvc,
		notifier:      notifier,
		checkout:      checkout,
	}
}

// Ensure checkinService implements the portssvc.CheckinSvcFacade interface
var _ portssvc.CheckinSvcFacade = (*checkinService)(nil)

// --- Reader operations ---

// GetCheckinByID retrieves a specific checkin.
func (s *checkinService) GetCheckinByID(ctx context.Context, collectionID string, checkinID string, requestingUserID string) (*domain.Checkin, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	checkin, err := s.checkinRepo.FindCheckinByID(ctx, collectionID, checkinID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find checkin by ID", slog.String("checkin_id", checkinID))
		}
		return nil, err
	}
	return checkin, nil
}

// ListCheckins retrieves a paginated list of checkins for a collection.
func (s *checkinService) ListCheckins(ctx context.Context, collectionID string, requestingUserID string, params dto.ListCheckinsParams) (*dto.ListCheckinsResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	var status *domain.CheckinStatus
	if params.Status != nil {
		st := domain.CheckinStatus(*params.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *params.Status)
		}
		status = &st
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	checkins, nextToken, err := s.checkinRepo.ListCheckinsByCollection(ctx, collectionID, status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list checkins", slog.String("collection_id", collectionID))
		return nil, fmt.Errorf("failed to retrieve checkins: %w", err)
	}

	resp := dto.ToListCheckinsResponse(checkins, nextToken)
	s.LogDebug(ctx, "Checkins listed successfully", slog.Int("count", len(checkins)))
	return &resp, nil
}

// ListCheckinsByArticle retrieves all checkins of an article, newest first.
func (s *checkinService) ListCheckinsByArticle(ctx context.Context, collectionID string, articleID string, requestingUserID string) ([]domain.Checkin, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if _, err := s.articleRepo.FindArticleByID(ctx, collectionID, articleID); err != nil {
		return nil, err
	}

	checkins, err := s.checkinRepo.ListCheckinsByArticle(ctx, collectionID, articleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list checkins by article", slog.String("article_id", articleID))
		return nil, err
	}
	return checkins, nil
}

// GetCheckinErrorLevel computes the aggregate error level over the checkin's
// full notice set, service markers included.
func (s *checkinService) GetCheckinErrorLevel(ctx context.Context, collectionID string, checkinID string, requestingUserID string) (domain.ErrorLevel, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return "", err
	}

	if _, err := s.checkinRepo.FindCheckinByID(ctx, collectionID, checkinID); err != nil {
		return "", err
	}

	notices, err := s.noticeRepo.FindNoticesByCheckinID(ctx, checkinID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch notices for error level", slog.String("checkin_id", checkinID))
		return "", err
	}
	return domain.AggregateErrorLevel(notices), nil
}

// ListWorkflowHistory retrieves the checkin's audit trail, oldest first.
func (s *checkinService) ListWorkflowHistory(ctx context.Context, collectionID string, checkinID string, requestingUserID string) ([]domain.CheckinWorkflowLog, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if _, err := s.checkinRepo.FindCheckinByID(ctx, collectionID, checkinID); err != nil {
		return nil, err
	}

	logs, err := s.checkinRepo.ListWorkflowLogsByCheckinID(ctx, checkinID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workflow logs", slog.String("checkin_id", checkinID))
		return nil, err
	}
	return logs, nil
}

// --- Workflow transitions ---

// SendToPending moves a rejected checkin back to pending.
func (s *checkinService) SendToPending(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	return s.transition(ctx, collectionID, checkinID, actorUserID, domain.ActionSendToPending, "")
}

// SendToReview moves a pending checkin to review.
func (s *checkinService) SendToReview(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	return s.transition(ctx, collectionID, checkinID, actorUserID, domain.ActionSendToReview, "")
}

// DoReview records a review pass on a checkin already in review.
func (s *checkinService) DoReview(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	return s.transition(ctx, collectionID, checkinID, actorUserID, domain.ActionDoReview, "")
}

// Accept accepts a reviewed checkin. On success the checkout hand-off is
// triggered outside the workflow transaction.
func (s *checkinService) Accept(ctx context.Context, collectionID string, checkinID string, actorUserID string) (*domain.Checkin, error) {
	checkin, err := s.transition(ctx, collectionID, checkinID, actorUserID, domain.ActionAccept, "")
	if err != nil {
		return nil, err
	}
	s.startCheckout(ctx, *checkin)
	return checkin, nil
}

// Reject rejects a checkin in review with a mandatory cause.
func (s *checkinService) Reject(ctx context.Context, collectionID string, checkinID string, actorUserID string, cause string) (*domain.Checkin, error) {
	if cause == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, domain.ErrRejectionCauseMissing)
	}
	return s.transition(ctx, collectionID, checkinID, actorUserID, domain.ActionDoReject, cause)
}

// transition runs one workflow transition atomically: the checkin row and the
// owning article's checkin set are locked, guards are evaluated against
// in-transaction snapshots, and the mutated checkin plus its audit log entry
// are written before commit.
func (s *checkinService) transition(ctx context.Context, collectionID, checkinID, actorUserID string, action domain.CheckinAction, cause string) (*domain.Checkin, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeUser(ctx, actorUserID, collectionID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for checkin transition",
			slog.String("user_id", actorUserID),
			slog.String("collection_id", collectionID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
		return nil, err
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrForbidden
		}
		return nil, fmt.Errorf("failed to fetch acting user: %w", err)
	}

	tx, err := s.checkinRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transition transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op when the transaction has already committed.
		_ = s.checkinRepo.Rollback(ctx, tx)
	}()

	checkin, err := s.checkinRepo.FindCheckinByIDForUpdate(ctx, tx, collectionID, checkinID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock checkin for transition", slog.String("checkin_id", checkinID))
		}
		return nil, err
	}

	if err := s.checkinRepo.LockArticleCheckins(ctx, tx, checkin.ArticleID); err != nil {
		s.LogError(ctx, err, "Failed to lock article", slog.String("article_id", checkin.ArticleID))
		return nil, err
	}

	articleAccepted, err := s.checkinRepo.ArticleHasAcceptedCheckinInTx(ctx, tx, checkin.ArticleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check article acceptance", slog.String("article_id", checkin.ArticleID))
		return nil, err
	}

	notices, err := s.checkinRepo.FindNoticesByCheckinIDInTx(ctx, tx, checkinID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch notices for transition", slog.String("checkin_id", checkinID))
		return nil, err
	}

	tc := domain.TransitionContext{
		ArticleAccepted: articleAccepted,
		ErrorLevel:      domain.AggregateErrorLevel(notices),
	}

	now := time.Now().UTC()
	log, err := checkin.Transition(action, *actor, tc, cause, now)
	if err != nil {
		logger.Warn("Checkin transition refused",
			slog.String("checkin_id", checkinID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
		return nil, mapTransitionErr(err)
	}
	log.LogID = uuid.NewString()

	if err := s.checkinRepo.ApplyTransition(ctx, tx, *checkin, *log); err != nil {
		s.LogError(ctx, err, "Failed to apply checkin transition", slog.String("checkin_id", checkinID))
		return nil, err
	}

	if err := s.checkinRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit checkin transition", slog.String("checkin_id", checkinID))
		return nil, fmt.Errorf("%w: transition could not be committed", apperrors.ErrConflict)
	}

	logger.Info("Checkin transition applied",
		slog.String("checkin_id", checkinID),
		slog.String("action", string(action)),
		slog.String("status", string(checkin.Status)))

	s.notifyTransition(ctx, *checkin, action, actor.Name, log.Description)
	return checkin, nil
}

// mapTransitionErr classifies domain transition errors into the service error
// taxonomy. Guard violations are caller mistakes; acceptance races are
// conflicts with current state.
func mapTransitionErr(err error) error {
	var gerr *domain.GuardError
	switch {
	case errors.Is(err, domain.ErrActorInactive):
		return fmt.Errorf("%w: %s", apperrors.ErrForbidden, err)
	case errors.Is(err, domain.ErrArticleAccepted):
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, err)
	case errors.Is(err, domain.ErrRejectionCauseMissing):
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	case errors.As(err, &gerr):
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	return err
}

// notifyTransition hands the committed transition to the notifier. Delivery
// is the notifier's problem; a nil notifier disables notifications.
func (s *checkinService) notifyTransition(ctx context.Context, checkin domain.Checkin, action domain.CheckinAction, actorName, description string) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyTransition(ctx, portssvc.TransitionEvent{
		Checkin:     checkin,
		Action:      action,
		ActorName:   actorName,
		Description: description,
	})
}

// startCheckout asks the checkout service to pick up the accepted package and
// stamps checkout_started_at on acknowledgement. Runs detached from the
// request; a failed hand-off leaves the stamp unset so it can be retried.
func (s *checkinService) startCheckout(ctx context.Context, checkin domain.Checkin) {
	if s.checkout == nil || !checkin.CanBeSentToCheckout() {
		return
	}
	logger := s.GetLogger(ctx)
	go func() {
		reqCtx, cancel := context.WithTimeout(context.Background(), checkoutRequestTimeout)
		defer cancel()

		if err := s.checkout.RequestCheckout(reqCtx, checkin); err != nil {
			logger.Error("Checkout hand-off failed",
				slog.String("checkin_id", checkin.CheckinID),
				slog.String("error", err.Error()))
			return
		}
		now := time.Now().UTC()
		if err := s.checkinRepo.MarkCheckoutStarted(reqCtx, checkin.CollectionID, checkin.CheckinID, now); err != nil {
			logger.Error("Failed to stamp checkout start",
				slog.String("checkin_id", checkin.CheckinID),
				slog.String("error", err.Error()))
			return
		}
		logger.Info("Checkout started", slog.String("checkin_id", checkin.CheckinID))
	}()
}

// --- Ingestion operations ---

// CreateCheckin registers a new package deposit attempt in pending status.
// Creation writes no workflow log entry; log rows exist only for transitions,
// so a fresh checkin has an empty history.
func (s *checkinService) CreateCheckin(ctx context.Context, collectionID string, req dto.CreateCheckinRequest, creatorUserID string) (*domain.Checkin, error) {
	article, err := s.articleRepo.FindArticleByID(ctx, collectionID, req.ArticleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: article %s not found in collection %s", apperrors.ErrValidation, req.ArticleID, collectionID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	checkin := domain.Checkin{
		CheckinID:    uuid.NewString(),
		CollectionID: collectionID,
		ArticleID:    article.ArticleID,
		AttemptRef:   req.AttemptRef,
		PackageName:  req.PackageName,
		UploadedAt:   req.UploadedAt,
		SubmittedBy:  req.SubmittedBy,
		Status:       domain.CheckinPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.checkinRepo.SaveCheckin(ctx, checkin); err != nil {
		s.LogError(ctx, err, "Failed to save checkin",
			slog.String("article_id", req.ArticleID),
			slog.String("attempt_ref", req.AttemptRef))
		return nil, err
	}

	s.LogInfo(ctx, "Checkin created",
		slog.String("checkin_id", checkin.CheckinID),
		slog.String("article_id", article.ArticleID),
		slog.String("collection_id", collectionID))
	return &checkin, nil
}

// AddNotice appends a validation notice to a checkin.
func (s *checkinService) AddNotice(ctx context.Context, collectionID string, checkinID string, req dto.CreateNoticeRequest) (*domain.Notice, error) {
	if _, err := s.checkinRepo.FindCheckinByID(ctx, collectionID, checkinID); err != nil {
		return nil, err
	}

	notice := domain.Notice{
		NoticeID:   uuid.NewString(),
		CheckinID:  checkinID,
		Stage:      req.Stage,
		Checkpoint: req.Checkpoint,
		Message:    req.Message,
		Status:     req.Status,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.noticeRepo.SaveNotice(ctx, notice); err != nil {
		s.LogError(ctx, err, "Failed to save notice", slog.String("checkin_id", checkinID))
		return nil, err
	}
	return &notice, nil
}

// ListNotices retrieves a checkin's notices. Service markers are filtered out
// unless explicitly requested.
func (s *checkinService) ListNotices(ctx context.Context, collectionID string, checkinID string, includeServiceMarkers bool) ([]domain.Notice, error) {
	if _, err := s.checkinRepo.FindCheckinByID(ctx, collectionID, checkinID); err != nil {
		return nil, err
	}

	notices, err := s.noticeRepo.FindNoticesByCheckinID(ctx, checkinID, includeServiceMarkers)
	if err != nil {
		s.LogError(ctx, err, "Failed to list notices", slog.String("checkin_id", checkinID))
		return nil, err
	}
	return notices, nil
}
