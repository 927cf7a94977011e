package dto

import (
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// --- Ticket DTOs ---

// CreateTicketRequest defines data for opening a ticket against an article.
type CreateTicketRequest struct {
	ArticleID string `json:"articleID" binding:"required"`
	Title     string `json:"title" binding:"required,min=3,max=256"`
	Message   string `json:"message" binding:"required"`
}

// TicketResponse defines the data returned for a ticket.
type TicketResponse struct {
	TicketID   string     `json:"ticketID"`
	ArticleID  string     `json:"articleID"`
	AuthorID   string     `json:"authorID"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	IsOpen     bool       `json:"isOpen"`
}

// ToTicketResponse converts a domain.Ticket to TicketResponse DTO.
func ToTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:   t.TicketID,
		ArticleID:  t.ArticleID,
		AuthorID:   t.AuthorID,
		Title:      t.Title,
		Message:    t.Message,
		StartedAt:  t.StartedAt,
		FinishedAt: t.FinishedAt,
		IsOpen:     t.IsOpen(),
	}
}

// ListTicketsResponse wraps a list of tickets.
type ListTicketsResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

// ToListTicketsResponse converts a slice of domain.Ticket to DTO.
func ToListTicketsResponse(tickets []domain.Ticket) ListTicketsResponse {
	list := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		list[i] = ToTicketResponse(&t)
	}
	return ListTicketsResponse{Tickets: list}
}

// --- Comment DTOs ---

// CreateCommentRequest defines data for commenting on a ticket.
type CreateCommentRequest struct {
	Message string `json:"message" binding:"required"`
}

// CommentResponse defines the data returned for a comment.
type CommentResponse struct {
	CommentID string    `json:"commentID"`
	TicketID  string    `json:"ticketID"`
	AuthorID  string    `json:"authorID"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToCommentResponse converts a domain.Comment to CommentResponse DTO.
func ToCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		CommentID: c.CommentID,
		TicketID:  c.TicketID,
		AuthorID:  c.AuthorID,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// TicketDetailResponse combines a ticket with its comment thread.
type TicketDetailResponse struct {
	Ticket   TicketResponse    `json:"ticket"`
	Comments []CommentResponse `json:"comments"`
}

// ToTicketDetailResponse converts a ticket and its comments to DTO.
func ToTicketDetailResponse(t *domain.Ticket, comments []domain.Comment) TicketDetailResponse {
	list := make([]CommentResponse, len(comments))
	for i, c := range comments {
		list[i] = ToCommentResponse(&c)
	}
	return TicketDetailResponse{Ticket: ToTicketResponse(t), Comments: list}
}
