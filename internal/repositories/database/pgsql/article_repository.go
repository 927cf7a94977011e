package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/articletrack/articletrack_app/internal/models"
	"github.com/articletrack/articletrack_app/internal/utils/mapping"
	"github.com/articletrack/articletrack_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxArticleRepository struct {
	db *pgxpool.Pool
}

func newPgxArticleRepository(db *pgxpool.Pool) portsrepo.ArticleRepositoryFacade {
	return &PgxArticleRepository{db: db}
}

// Ensure PgxArticleRepository implements portsrepo.ArticleRepositoryFacade
var _ portsrepo.ArticleRepositoryFacade = (*PgxArticleRepository)(nil)

const articleColumns = `article_id, collection_id, article_title, article_pkg_ref, journal_title, issue_label, pissn, eissn,
	       created_at, created_by, last_updated_at, last_updated_by`

func scanArticle(row pgx.Row) (models.Article, error) {
	var m models.Article
	err := row.Scan(
		&m.ArticleID,
		&m.CollectionID,
		&m.ArticleTitle,
		&m.ArticlePkgRef,
		&m.JournalTitle,
		&m.IssueLabel,
		&m.PISSN,
		&m.EISSN,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveArticle persists a new article.
func (r *PgxArticleRepository) SaveArticle(ctx context.Context, article domain.Article) error {
	m := mapping.ToModelArticle(article)
	query := `
		INSERT INTO articles (
			article_id, collection_id, article_title, article_pkg_ref, journal_title, issue_label, pissn, eissn,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.ArticleID,
		m.CollectionID,
		m.ArticleTitle,
		m.ArticlePkgRef,
		m.JournalTitle,
		m.IssueLabel,
		m.PISSN,
		m.EISSN,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert article "+m.ArticleID, err)
	}
	return nil
}

// FindArticleByID retrieves an article by its ID, scoped to the collection.
func (r *PgxArticleRepository) FindArticleByID(ctx context.Context, collectionID, articleID string) (*domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE collection_id = $1 AND article_id = $2;
	`
	m, err := scanArticle(r.db.QueryRow(ctx, query, collectionID, articleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find article by ID "+articleID, err)
	}

	domainArticle := mapping.ToDomainArticle(m)
	return &domainArticle, nil
}

// ListArticlesByCollection retrieves a paginated list of articles using
// token-based pagination on the creation time, newest first.
func (r *PgxArticleRepository) ListArticlesByCollection(ctx context.Context, collectionID string, limit int, nextToken *string) ([]domain.Article, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE collection_id = $1
	`
	orderByClause := `ORDER BY created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{collectionID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		args = append(args, lastCreatedAt)
		cursorClause := `AND created_at < $` + strconv.Itoa(len(args))

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.db.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.db.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query articles for collection "+collectionID, err)
	}
	defer rows.Close()

	modelArticles := make([]models.Article, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanArticle(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan article row for collection "+collectionID, scanErr)
		}
		modelArticles = append(modelArticles, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating article rows for collection "+collectionID, err)
	}

	var nextTokenVal *string
	results := modelArticles
	if len(modelArticles) > limit {
		lastArticle := modelArticles[limit-1]
		newToken := pagination.EncodeDateBasedToken(lastArticle.CreatedAt)
		nextTokenVal = &newToken
		results = modelArticles[:limit]
	}

	return mapping.ToDomainArticleSlice(results), nextTokenVal, nil
}

// ArticleHasAcceptedCheckin reports whether any checkin of the article holds
// status accepted. Read outside any transaction; the workflow transaction
// re-checks under lock before mutating state.
func (r *PgxArticleRepository) ArticleHasAcceptedCheckin(ctx context.Context, articleID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM checkins WHERE article_id = $1 AND status = 'accepted');`
	var accepted bool
	if err := r.db.QueryRow(ctx, query, articleID).Scan(&accepted); err != nil {
		return false, apperrors.NewAppError(500, "failed to check accepted checkins for article "+articleID, err)
	}
	return accepted, nil
}

// FindNewestCheckinByArticle retrieves the article's most recently uploaded checkin.
func (r *PgxArticleRepository) FindNewestCheckinByArticle(ctx context.Context, articleID string) (*domain.Checkin, error) {
	query := `
		SELECT ` + checkinColumns + `
		FROM checkins
		WHERE article_id = $1
		ORDER BY uploaded_at DESC, created_at DESC
		LIMIT 1;
	`
	m, err := scanCheckin(r.db.QueryRow(ctx, query, articleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find newest checkin for article "+articleID, err)
	}

	domainCheckin := mapping.ToDomainCheckin(m)
	return &domainCheckin, nil
}
