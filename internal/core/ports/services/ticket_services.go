package services

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/dto"
)

// TicketReaderSvc defines read operations for ticket data
type TicketReaderSvc interface {
	// GetTicketByID retrieves a ticket with its comments.
	GetTicketByID(ctx context.Context, collectionID string, ticketID string, requestingUserID string) (*dto.TicketDetailResponse, error)

	// ListTicketsByArticle retrieves an article's tickets, oldest first.
	ListTicketsByArticle(ctx context.Context, collectionID string, articleID string, requestingUserID string, openOnly bool) ([]domain.Ticket, error)
}

// TicketWriterSvc defines write operations for ticket data
type TicketWriterSvc interface {
	// OpenTicket opens a new ticket against an article.
	OpenTicket(ctx context.Context, collectionID string, req dto.CreateTicketRequest, authorUserID string) (*domain.Ticket, error)

	// CloseTicket closes an open ticket. Only the author or a collection
	// admin can close it.
	CloseTicket(ctx context.Context, collectionID string, ticketID string, requestingUserID string) error

	// AddComment appends a comment to an open ticket.
	AddComment(ctx context.Context, collectionID string, ticketID string, req dto.CreateCommentRequest, authorUserID string) (*domain.Comment, error)
}

// TicketSvcFacade combines all ticket-related service interfaces
type TicketSvcFacade interface {
	TicketReaderSvc
	TicketWriterSvc
}
