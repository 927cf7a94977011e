package repositories

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// CollectionReader defines read operations for collection data
type CollectionReader interface {
	// FindCollectionByID retrieves a specific collection by its ID.
	FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)

	// ListCollectionsByUserID retrieves all collections a user belongs to.
	ListCollectionsByUserID(ctx context.Context, userID string) ([]domain.Collection, error)
}

// CollectionWriter defines write operations for collection data
type CollectionWriter interface {
	// SaveCollection persists a new collection.
	SaveCollection(ctx context.Context, collection domain.Collection) error
}

// CollectionMembershipManager defines operations for managing collection memberships
type CollectionMembershipManager interface {
	// AddUserToCollection adds a user to a collection with a specific role.
	AddUserToCollection(ctx context.Context, membership domain.UserCollection) error

	// FindUserCollectionRole retrieves the role of a user in a collection.
	FindUserCollectionRole(ctx context.Context, userID, collectionID string) (*domain.UserCollection, error)

	// ListCollectionUsers retrieves all memberships of a collection.
	ListCollectionUsers(ctx context.Context, collectionID string) ([]domain.UserCollection, error)
}

// CollectionRepositoryFacade combines all collection-related repository interfaces
// This is a facade for clients that need access to all operations
type CollectionRepositoryFacade interface {
	CollectionReader
	CollectionWriter
	CollectionMembershipManager
}
