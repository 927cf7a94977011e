package models

import "time"

// Ticket is the row shape for an article discussion thread. A NULL
// finished_at means the ticket is still open.
type Ticket struct {
	TicketID   string     `db:"ticket_id"`
	ArticleID  string     `db:"article_id"`
	AuthorID   string     `db:"author_id"`
	Title      string     `db:"title"`
	Message    string     `db:"message"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

// Comment is the row shape for one message in a ticket thread.
type Comment struct {
	CommentID string    `db:"comment_id"`
	TicketID  string    `db:"ticket_id"`
	AuthorID  string    `db:"author_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
