package services

import (
	"context"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// CollectionReaderSvc defines read operations for collection data
type CollectionReaderSvc interface {
	// FindCollectionByID retrieves a specific collection by its ID.
	FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)

	// ListUserCollections retrieves collections a user belongs to.
	ListUserCollections(ctx context.Context, userID string) ([]domain.Collection, error)

	// ListCollectionUsers retrieves all users and their roles for a specific collection.
	// Only members of the collection can access this data.
	ListCollectionUsers(ctx context.Context, collectionID string, requestingUserID string) ([]domain.UserCollection, error)
}

// CollectionWriterSvc defines write operations for collection data
type CollectionWriterSvc interface {
	// CreateCollection persists a new collection with the creator as admin.
	CreateCollection(ctx context.Context, name, acronym, description, creatorUserID string) (*domain.Collection, error)
}

// CollectionMembershipSvc defines operations for managing collection membership
type CollectionMembershipSvc interface {
	// AddUserToCollection adds a user to a collection with a specific role.
	// Only collection admins can add users.
	AddUserToCollection(ctx context.Context, addingUserID, targetUserID, collectionID string, role domain.UserCollectionRole) error
}

// CollectionAuthorizerSvc defines operations for collection authorization
type CollectionAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has required permissions for a collection.
	AuthorizeUserAction(ctx context.Context, userID, collectionID string, requiredRole domain.UserCollectionRole) error
}

// CollectionSvcFacade combines all collection-related service interfaces
// This is a facade for clients that need access to all operations
type CollectionSvcFacade interface {
	CollectionReaderSvc
	CollectionWriterSvc
	CollectionMembershipSvc
	CollectionAuthorizerSvc
}
