package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/articletrack/articletrack_app/internal/dto"
	"github.com/google/uuid"
)

// ErrTicketClosed is returned when commenting on or closing an already
// finished ticket.
var ErrTicketClosed = errors.New("ticket is already closed")

// ticketService provides ticket and comment operations.
type ticketService struct {
	BaseService
	ticketRepo    portsrepo.TicketRepositoryFacade
	articleRepo   portsrepo.ArticleRepositoryFacade
	collectionSvc portssvc.CollectionSvcFacade
}

// NewTicketService creates a new TicketService.
func NewTicketService(ticketRepo portsrepo.TicketRepositoryFacade, articleRepo portsrepo.ArticleRepositoryFacade, collectionSvc portssvc.CollectionSvcFacade) portssvc.TicketSvcFacade {
	return &ticketService{
		BaseService:   BaseService{CollectionAuthorizer: collectionSvc},
		ticketRepo:    ticketRepo,
		articleRepo:   articleRepo,
		collectionSvc: collectionSvc,
	}
}

var _ portssvc.TicketSvcFacade = (*ticketService)(nil)

// GetTicketByID retrieves a ticket with its comment thread.
func (s *ticketService) GetTicketByID(ctx context.Context, collectionID string, ticketID string, requestingUserID string) (*dto.TicketDetailResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	ticket, err := s.findTicketInCollection(ctx, collectionID, ticketID)
	if err != nil {
		return nil, err
	}

	comments, err := s.ticketRepo.ListCommentsByTicket(ctx, ticketID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ticket comments", slog.String("ticket_id", ticketID))
		return nil, err
	}

	resp := dto.ToTicketDetailResponse(ticket, comments)
	return &resp, nil
}

// ListTicketsByArticle retrieves an article's tickets.
func (s *ticketService) ListTicketsByArticle(ctx context.Context, collectionID string, articleID string, requestingUserID string, openOnly bool) ([]domain.Ticket, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if _, err := s.articleRepo.FindArticleByID(ctx, collectionID, articleID); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListTicketsByArticle(ctx, articleID, openOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tickets by article", slog.String("article_id", articleID))
		return nil, err
	}
	return tickets, nil
}

// OpenTicket opens a new ticket against an article.
func (s *ticketService) OpenTicket(ctx context.Context, collectionID string, req dto.CreateTicketRequest, authorUserID string) (*domain.Ticket, error) {
	if err := s.AuthorizeUser(ctx, authorUserID, collectionID, domain.RoleMember); err != nil {
		return nil, err
	}

	if _, err := s.articleRepo.FindArticleByID(ctx, collectionID, req.ArticleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: article %s not found in collection %s", apperrors.ErrValidation, req.ArticleID, collectionID)
		}
		return nil, err
	}

	ticket := domain.Ticket{
		TicketID:  uuid.NewString(),
		ArticleID: req.ArticleID,
		AuthorID:  authorUserID,
		Title:     req.Title,
		Message:   req.Message,
		StartedAt: time.Now().UTC(),
	}

	if err := s.ticketRepo.SaveTicket(ctx, ticket); err != nil {
		s.LogError(ctx, err, "Failed to save ticket", slog.String("article_id", req.ArticleID))
		return nil, err
	}

	s.LogInfo(ctx, "Ticket opened",
		slog.String("ticket_id", ticket.TicketID),
		slog.String("article_id", req.ArticleID))
	return &ticket, nil
}

// CloseTicket closes an open ticket. Allowed for the ticket's author or a
// collection admin.
func (s *ticketService) CloseTicket(ctx context.Context, collectionID string, ticketID string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, collectionID, domain.RoleMember); err != nil {
		return err
	}

	ticket, err := s.findTicketInCollection(ctx, collectionID, ticketID)
	if err != nil {
		return err
	}
	if !ticket.IsOpen() {
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrTicketClosed)
	}

	if ticket.AuthorID != requestingUserID {
		if err := s.collectionSvc.AuthorizeUserAction(ctx, requestingUserID, collectionID, domain.RoleAdmin); err != nil {
			return err
		}
	}

	if err := s.ticketRepo.CloseTicket(ctx, ticketID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to close ticket", slog.String("ticket_id", ticketID))
		return err
	}

	s.LogInfo(ctx, "Ticket closed", slog.String("ticket_id", ticketID))
	return nil
}

// AddComment appends a comment to an open ticket.
func (s *ticketService) AddComment(ctx context.Context, collectionID string, ticketID string, req dto.CreateCommentRequest, authorUserID string) (*domain.Comment, error) {
	if err := s.AuthorizeUser(ctx, authorUserID, collectionID, domain.RoleMember); err != nil {
		return nil, err
	}

	ticket, err := s.findTicketInCollection(ctx, collectionID, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsOpen() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrTicketClosed)
	}

	now := time.Now().UTC()
	comment := domain.Comment{
		CommentID: uuid.NewString(),
		TicketID:  ticketID,
		AuthorID:  authorUserID,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ticketRepo.SaveComment(ctx, comment); err != nil {
		s.LogError(ctx, err, "Failed to save comment", slog.String("ticket_id", ticketID))
		return nil, err
	}
	return &comment, nil
}

// findTicketInCollection fetches a ticket and verifies its article belongs to
// the given collection. Tickets from other collections read as not found.
func (s *ticketService) findTicketInCollection(ctx context.Context, collectionID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.FindTicketByID(ctx, ticketID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ticket by ID", slog.String("ticket_id", ticketID))
		}
		return nil, err
	}

	if _, err := s.articleRepo.FindArticleByID(ctx, collectionID, ticket.ArticleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}
