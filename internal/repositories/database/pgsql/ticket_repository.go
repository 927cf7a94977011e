package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/articletrack/articletrack_app/internal/models"
	"github.com/articletrack/articletrack_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTicketRepository struct {
	db *pgxpool.Pool
}

// newPgxTicketRepository creates a new repository for ticket and comment data.
func newPgxTicketRepository(db *pgxpool.Pool) portsrepo.TicketRepositoryFacade {
	return &PgxTicketRepository{db: db}
}

// Ensure PgxTicketRepository implements portsrepo.TicketRepositoryFacade
var _ portsrepo.TicketRepositoryFacade = (*PgxTicketRepository)(nil)

const ticketColumns = `ticket_id, article_id, author_id, title, message, started_at, finished_at`

func scanTicket(row pgx.Row) (models.Ticket, error) {
	var m models.Ticket
	err := row.Scan(
		&m.TicketID,
		&m.ArticleID,
		&m.AuthorID,
		&m.Title,
		&m.Message,
		&m.StartedAt,
		&m.FinishedAt,
	)
	return m, err
}

// SaveTicket persists a new ticket.
func (r *PgxTicketRepository) SaveTicket(ctx context.Context, ticket domain.Ticket) error {
	m := mapping.ToModelTicket(ticket)
	query := `
		INSERT INTO tickets (ticket_id, article_id, author_id, title, message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		m.TicketID,
		m.ArticleID,
		m.AuthorID,
		m.Title,
		m.Message,
		m.StartedAt,
		m.FinishedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert ticket "+m.TicketID, err)
	}
	return nil
}

// FindTicketByID retrieves a specific ticket by its unique identifier.
func (r *PgxTicketRepository) FindTicketByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE ticket_id = $1;
	`
	m, err := scanTicket(r.db.QueryRow(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ticket by ID "+ticketID, err)
	}

	domainTicket := mapping.ToDomainTicket(m)
	return &domainTicket, nil
}

// ListTicketsByArticle retrieves all tickets of an article, oldest first.
// When openOnly is true, closed tickets are filtered out.
func (r *PgxTicketRepository) ListTicketsByArticle(ctx context.Context, articleID string, openOnly bool) ([]domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE article_id = $1
	`
	if openOnly {
		query += ` AND finished_at IS NULL`
	}
	query += ` ORDER BY started_at ASC;`

	rows, err := r.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tickets for article "+articleID, err)
	}
	defer rows.Close()

	modelTickets := []models.Ticket{}
	for rows.Next() {
		m, scanErr := scanTicket(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ticket row for article "+articleID, scanErr)
		}
		modelTickets = append(modelTickets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ticket rows for article "+articleID, err)
	}

	return mapping.ToDomainTicketSlice(modelTickets), nil
}

// CloseTicket stamps the ticket's finished time. Closing an already closed
// ticket is reported as not found, since the open row no longer exists.
func (r *PgxTicketRepository) CloseTicket(ctx context.Context, ticketID string, finishedAt time.Time) error {
	query := `
		UPDATE tickets
		SET finished_at = $2
		WHERE ticket_id = $1 AND finished_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, ticketID, finishedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close ticket "+ticketID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveComment persists a new comment on a ticket.
func (r *PgxTicketRepository) SaveComment(ctx context.Context, comment domain.Comment) error {
	m := mapping.ToModelComment(comment)
	query := `
		INSERT INTO comments (comment_id, ticket_id, author_id, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		m.CommentID,
		m.TicketID,
		m.AuthorID,
		m.Message,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert comment "+m.CommentID, err)
	}
	return nil
}

// ListCommentsByTicket retrieves a ticket's comments, oldest first.
func (r *PgxTicketRepository) ListCommentsByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	query := `
		SELECT comment_id, ticket_id, author_id, message, created_at, updated_at
		FROM comments
		WHERE ticket_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query comments for ticket "+ticketID, err)
	}
	defer rows.Close()

	modelComments := []models.Comment{}
	for rows.Next() {
		var m models.Comment
		if scanErr := rows.Scan(&m.CommentID, &m.TicketID, &m.AuthorID, &m.Message, &m.CreatedAt, &m.UpdatedAt); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan comment row for ticket "+ticketID, scanErr)
		}
		modelComments = append(modelComments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating comment rows for ticket "+ticketID, err)
	}

	return mapping.ToDomainCommentSlice(modelComments), nil
}
