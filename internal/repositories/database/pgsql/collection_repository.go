package pgsql

import (
	"context"
	"errors"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	"github.com/articletrack/articletrack_app/internal/models"
	"github.com/articletrack/articletrack_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCollectionRepository struct {
	db *pgxpool.Pool
}

// newPgxCollectionRepository creates a new repository for collection data.
func newPgxCollectionRepository(db *pgxpool.Pool) portsrepo.CollectionRepositoryFacade {
	return &PgxCollectionRepository{db: db}
}

// Ensure PgxCollectionRepository implements portsrepo.CollectionRepositoryFacade
var _ portsrepo.CollectionRepositoryFacade = (*PgxCollectionRepository)(nil)

const collectionColumns = `c.collection_id, c.name, c.acronym, c.description, c.is_active,
	       c.created_at, c.created_by, c.last_updated_at, c.last_updated_by`

func scanCollection(row pgx.Row) (models.Collection, error) {
	var m models.Collection
	err := row.Scan(
		&m.CollectionID,
		&m.Name,
		&m.Acronym,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCollection persists a new collection.
func (r *PgxCollectionRepository) SaveCollection(ctx context.Context, collection domain.Collection) error {
	m := mapping.ToModelCollection(collection)
	query := `
		INSERT INTO collections (
			collection_id, name, acronym, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		m.CollectionID,
		m.Name,
		m.Acronym,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save collection "+m.CollectionID, err)
	}
	return nil
}

// FindCollectionByID retrieves a specific collection by its ID.
func (r *PgxCollectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections c
		WHERE c.collection_id = $1;
	`
	m, err := scanCollection(r.db.QueryRow(ctx, query, collectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find collection by ID "+collectionID, err)
	}

	domainCollection := mapping.ToDomainCollection(m)
	return &domainCollection, nil
}

// ListCollectionsByUserID retrieves all active collections a user belongs to.
func (r *PgxCollectionRepository) ListCollectionsByUserID(ctx context.Context, userID string) ([]domain.Collection, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections c
		JOIN user_collections uc ON c.collection_id = uc.collection_id
		WHERE uc.user_id = $1 AND uc.role != $2 AND c.is_active = true
		ORDER BY c.name;
	`
	rows, err := r.db.Query(ctx, query, userID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query collections for user "+userID, err)
	}
	defer rows.Close()

	modelCollections := []models.Collection{}
	for rows.Next() {
		m, scanErr := scanCollection(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan collection row", scanErr)
		}
		modelCollections = append(modelCollections, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating collection rows", err)
	}

	return mapping.ToDomainCollectionSlice(modelCollections), nil
}

// AddUserToCollection adds a user to a collection, or updates their role if
// they are already a member.
func (r *PgxCollectionRepository) AddUserToCollection(ctx context.Context, membership domain.UserCollection) error {
	query := `
		INSERT INTO user_collections (user_id, collection_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, collection_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.db.Exec(ctx, query,
		membership.UserID,
		membership.CollectionID,
		string(membership.Role),
		membership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to add/update user "+membership.UserID+" in collection "+membership.CollectionID, err)
	}
	return nil
}

// FindUserCollectionRole retrieves the role of a user in a collection.
func (r *PgxCollectionRepository) FindUserCollectionRole(ctx context.Context, userID, collectionID string) (*domain.UserCollection, error) {
	query := `
		SELECT uc.user_id, u.name AS user_name, uc.collection_id, uc.role, uc.joined_at
		FROM user_collections uc
		JOIN users u ON uc.user_id = u.user_id
		WHERE uc.user_id = $1 AND uc.collection_id = $2;
	`
	var uc domain.UserCollection
	err := r.db.QueryRow(ctx, query, userID, collectionID).Scan(
		&uc.UserID,
		&uc.UserName,
		&uc.CollectionID,
		&uc.Role,
		&uc.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID+" role in collection "+collectionID, err)
	}
	return &uc, nil
}

// ListCollectionUsers retrieves all memberships of a collection, excluding
// removed users.
func (r *PgxCollectionRepository) ListCollectionUsers(ctx context.Context, collectionID string) ([]domain.UserCollection, error) {
	query := `
		SELECT uc.user_id, u.name AS user_name, uc.collection_id, uc.role, uc.joined_at
		FROM user_collections uc
		JOIN users u ON uc.user_id = u.user_id
		WHERE uc.collection_id = $1 AND uc.role != $2
		ORDER BY uc.joined_at DESC;
	`
	rows, err := r.db.Query(ctx, query, collectionID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users for collection "+collectionID, err)
	}
	defer rows.Close()

	var memberships []domain.UserCollection
	for rows.Next() {
		var uc domain.UserCollection
		if scanErr := rows.Scan(&uc.UserID, &uc.UserName, &uc.CollectionID, &uc.Role, &uc.JoinedAt); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user collection row", scanErr)
		}
		memberships = append(memberships, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user collection rows", err)
	}

	return memberships, nil
}
