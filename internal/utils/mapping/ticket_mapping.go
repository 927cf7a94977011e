package mapping

import (
	"github.com/articletrack/articletrack_app/internal/core/domain"
	"github.com/articletrack/articletrack_app/internal/models"
)

// ToModelTicket converts a domain Ticket to a model Ticket
func ToModelTicket(d domain.Ticket) models.Ticket {
	return models.Ticket{
		TicketID:   d.TicketID,
		ArticleID:  d.ArticleID,
		AuthorID:   d.AuthorID,
		Title:      d.Title,
		Message:    d.Message,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}

// ToDomainTicket converts a model Ticket to a domain Ticket
func ToDomainTicket(m models.Ticket) domain.Ticket {
	return domain.Ticket{
		TicketID:   m.TicketID,
		ArticleID:  m.ArticleID,
		AuthorID:   m.AuthorID,
		Title:      m.Title,
		Message:    m.Message,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

// ToDomainTicketSlice converts a slice of model Tickets to a slice of domain Tickets
func ToDomainTicketSlice(ms []models.Ticket) []domain.Ticket {
	ds := make([]domain.Ticket, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTicket(m)
	}
	return ds
}

// ToModelComment converts a domain Comment to a model Comment
func ToModelComment(d domain.Comment) models.Comment {
	return models.Comment{
		CommentID: d.CommentID,
		TicketID:  d.TicketID,
		AuthorID:  d.AuthorID,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainComment converts a model Comment to a domain Comment
func ToDomainComment(m models.Comment) domain.Comment {
	return domain.Comment{
		CommentID: m.CommentID,
		TicketID:  m.TicketID,
		AuthorID:  m.AuthorID,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToDomainCommentSlice converts a slice of model Comments to a slice of domain Comments
func ToDomainCommentSlice(ms []models.Comment) []domain.Comment {
	ds := make([]domain.Comment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainComment(m)
	}
	return ds
}
