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
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type PgxAPITokenRepository struct {
	db *pgxpool.Pool
}

// newPgxAPITokenRepository creates a new instance of PgxAPITokenRepository
func newPgxAPITokenRepository(db *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{db: db}
}

// Ensure PgxAPITokenRepository implements portsrepo.APITokenRepository
var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

const apiTokenColumns = `id, user_id, name, token_hash, last_used_at, expires_at, created_at, updated_at`

// scanAPIToken scans an API token from a row
func scanAPIToken(row pgx.Row) (*models.APIToken, error) {
	var token models.APIToken
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Name,
		&token.TokenHash,
		&token.LastUsedAt,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// Create persists a new API token
func (r *PgxAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	modelToken := mapping.ToModelAPIToken(*token)

	query := `
		INSERT INTO api_tokens (id, user_id, name, token_hash, expires_at, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + apiTokenColumns + `;
	`
	row := r.db.QueryRow(ctx, query,
		modelToken.UserID,
		modelToken.Name,
		modelToken.TokenHash,
		modelToken.ExpiresAt,
	)

	created, err := scanAPIToken(row)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert api token", err)
	}

	// Update the original token with the generated values
	token.ID = created.ID
	token.CreatedAt = created.CreatedAt
	token.UpdatedAt = created.UpdatedAt

	return nil
}

// FindByID retrieves an API token by its ID
func (r *PgxAPITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	if id == "" {
		return nil, errors.New("id cannot be empty")
	}

	query := `SELECT ` + apiTokenColumns + ` FROM api_tokens WHERE id = $1;`
	token, err := scanAPIToken(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find api token by ID "+id, err)
	}

	domainToken := mapping.ToDomainAPIToken(*token)
	return &domainToken, nil
}

// FindByUserID retrieves all API tokens for a specific user
func (r *PgxAPITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	query := `SELECT ` + apiTokenColumns + ` FROM api_tokens WHERE user_id = $1 ORDER BY created_at DESC;`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query api tokens for user "+userID, err)
	}
	defer rows.Close()

	var tokens []domain.APIToken
	for rows.Next() {
		token, scanErr := scanAPIToken(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan api token row", scanErr)
		}
		tokens = append(tokens, mapping.ToDomainAPIToken(*token))
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating api token rows", err)
	}

	return tokens, nil
}

// FindByToken finds a token by its plaintext value. Token hashes are bcrypt,
// so there is no hash-equality lookup; candidates are compared one by one.
// The token count per deployment is small (one per external service).
func (r *PgxAPITokenRepository) FindByToken(ctx context.Context, tokenString string) (*domain.APIToken, error) {
	if tokenString == "" {
		return nil, errors.New("token string cannot be empty")
	}

	query := `
		SELECT ` + apiTokenColumns + `
		FROM api_tokens
		WHERE expires_at IS NULL OR expires_at > NOW();
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query api tokens", err)
	}
	defer rows.Close()

	for rows.Next() {
		token, scanErr := scanAPIToken(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan api token row", scanErr)
		}
		if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(tokenString)) == nil {
			domainToken := mapping.ToDomainAPIToken(*token)
			return &domainToken, nil
		}
	}
	if err = rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating api token rows", err)
	}

	return nil, apperrors.ErrNotFound
}

// Update updates an existing API token (last_used_at only)
func (r *PgxAPITokenRepository) Update(ctx context.Context, token *domain.APIToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	query := `
		UPDATE api_tokens
		SET last_used_at = COALESCE($2, last_used_at),
		    updated_at = NOW()
		WHERE id = $1;
	`
	result, err := r.db.Exec(ctx, query, token.ID, token.LastUsedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update api token "+token.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	token.UpdatedAt = time.Now()
	return nil
}

// Delete removes an API token by ID
func (r *PgxAPITokenRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	result, err := r.db.Exec(ctx, `DELETE FROM api_tokens WHERE id = $1;`, id)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete api token "+id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID removes all API tokens for a specific user
func (r *PgxAPITokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	_, err := r.db.Exec(ctx, `DELETE FROM api_tokens WHERE user_id = $1;`, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete api tokens for user "+userID, err)
	}
	return nil
}

// DeleteExpired removes all expired API tokens
func (r *PgxAPITokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if before.IsZero() {
		return 0, errors.New("invalid time provided")
	}

	result, err := r.db.Exec(ctx, `DELETE FROM api_tokens WHERE expires_at IS NOT NULL AND expires_at < $1;`, before)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete expired api tokens", err)
	}
	return result.RowsAffected(), nil
}
