package domain

import "time"

// Ticket is a discussion thread attached to an article, used by editors and
// submitters to track problems with a submission.
type Ticket struct {
	TicketID   string     `json:"ticketID"`  // Primary Key (e.g., UUID)
	ArticleID  string     `json:"articleID"` // FK -> articles.article_id
	AuthorID   string     `json:"authorID"`  // FK -> users.user_id
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// IsOpen reports whether the ticket has not been closed yet.
func (t *Ticket) IsOpen() bool {
	return t.FinishedAt == nil
}

// Comment is one message in a ticket's thread.
type Comment struct {
	CommentID string    `json:"commentID"` // Primary Key (e.g., UUID)
	TicketID  string    `json:"ticketID"`  // FK -> tickets.ticket_id
	AuthorID  string    `json:"authorID"`  // FK -> users.user_id
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
