package repositories

import (
	"context"
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// TicketReader defines read operations for ticket data
type TicketReader interface {
	// FindTicketByID retrieves a specific ticket by its unique identifier.
	FindTicketByID(ctx context.Context, ticketID string) (*domain.Ticket, error)

	// ListTicketsByArticle retrieves all tickets of an article, oldest first.
	// When openOnly is true, closed tickets are filtered out.
	ListTicketsByArticle(ctx context.Context, articleID string, openOnly bool) ([]domain.Ticket, error)
}

// TicketWriter defines write operations for ticket data
type TicketWriter interface {
	// SaveTicket persists a new ticket.
	SaveTicket(ctx context.Context, ticket domain.Ticket) error

	// CloseTicket stamps the ticket's finished time.
	CloseTicket(ctx context.Context, ticketID string, finishedAt time.Time) error
}

// CommentReader defines read operations for ticket comments
type CommentReader interface {
	// ListCommentsByTicket retrieves a ticket's comments, oldest first.
	ListCommentsByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

// CommentWriter defines write operations for ticket comments
type CommentWriter interface {
	// SaveComment persists a new comment.
	SaveComment(ctx context.Context, comment domain.Comment) error
}

// TicketRepositoryFacade combines all ticket-related repository interfaces
type TicketRepositoryFacade interface {
	TicketReader
	TicketWriter
	CommentReader
	CommentWriter
}
