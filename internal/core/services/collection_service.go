package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/articletrack/articletrack_app/internal/apperrors"
	"github.com/articletrack/articletrack_app/internal/core/domain"
	portsrepo "github.com/articletrack/articletrack_app/internal/core/ports/repositories"
	portssvc "github.com/articletrack/articletrack_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// collectionService implements the CollectionSvcFacade interface
type collectionService struct {
	BaseService
	collectionRepo portsrepo.CollectionRepositoryFacade
}

// NewCollectionService creates a new collection service with the provided dependencies
func NewCollectionService(collectionRepo portsrepo.CollectionRepositoryFacade) portssvc.CollectionSvcFacade {
	return &collectionService{
		collectionRepo: collectionRepo,
	}
}

// Ensure collectionService implements the CollectionSvcFacade interface
var _ portssvc.CollectionSvcFacade = (*collectionService)(nil)

// FindCollectionByID retrieves a collection by its ID
func (s *collectionService) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	collection, err := s.collectionRepo.FindCollectionByID(ctx, collectionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find collection by ID",
				slog.String("collection_id", collectionID))
		}
		return nil, err
	}
	return collection, nil
}

// ListUserCollections retrieves all collections a user belongs to
func (s *collectionService) ListUserCollections(ctx context.Context, userID string) ([]domain.Collection, error) {
	collections, err := s.collectionRepo.ListCollectionsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list collections for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if collections == nil {
		return []domain.Collection{}, nil
	}
	return collections, nil
}

// ListCollectionUsers retrieves all memberships of a collection
func (s *collectionService) ListCollectionUsers(ctx context.Context, collectionID string, requestingUserID string) ([]domain.UserCollection, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, collectionID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	members, err := s.collectionRepo.ListCollectionUsers(ctx, collectionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list collection users",
			slog.String("collection_id", collectionID))
		return nil, err
	}
	return members, nil
}

// CreateCollection creates a new collection with the creator as admin
func (s *collectionService) CreateCollection(ctx context.Context, name, acronym, description, creatorUserID string) (*domain.Collection, error) {
	now := time.Now()
	collectionID := uuid.NewString()

	collection := domain.Collection{
		CollectionID: collectionID,
		Name:         name,
		Acronym:      acronym,
		Description:  description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.collectionRepo.SaveCollection(ctx, collection); err != nil {
		s.LogError(ctx, err, "Failed to save collection",
			slog.String("collection_id", collectionID))
		return nil, err
	}

	// Add creator as an admin to the new collection
	if err := s.AddUserToCollection(ctx, creatorUserID, creatorUserID, collectionID, domain.RoleAdmin); err != nil {
		s.LogError(ctx, err, "Failed to add creator as admin to new collection",
			slog.String("collection_id", collectionID),
			slog.String("user_id", creatorUserID))
		// The collection itself was created; membership can be repaired manually.
	}

	s.LogInfo(ctx, "Collection created successfully",
		slog.String("collection_id", collectionID),
		slog.String("creator_id", creatorUserID))
	return &collection, nil
}

// AddUserToCollection adds a user to a collection with a specific role
func (s *collectionService) AddUserToCollection(ctx context.Context, addingUserID, targetUserID, collectionID string, role domain.UserCollectionRole) error {
	// Self-assignment is permitted (e.g., creator adding self as admin)
	if addingUserID != targetUserID {
		if err := s.AuthorizeUserAction(ctx, addingUserID, collectionID, domain.RoleAdmin); err != nil {
			s.LogError(ctx, err, "User not authorized to add members to collection",
				slog.String("adding_user_id", addingUserID),
				slog.String("collection_id", collectionID))
			return err
		}
	}

	membership := domain.UserCollection{
		UserID:       targetUserID,
		CollectionID: collectionID,
		Role:         role,
		JoinedAt:     time.Now(),
	}

	if err := s.collectionRepo.AddUserToCollection(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to collection",
			slog.String("target_user_id", targetUserID),
			slog.String("collection_id", collectionID))
		return err
	}

	s.LogInfo(ctx, "User added to collection successfully",
		slog.String("target_user_id", targetUserID),
		slog.String("collection_id", collectionID),
		slog.String("role", string(role)))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for a collection
func (s *collectionService) AuthorizeUserAction(ctx context.Context, userID, collectionID string, requiredRole domain.UserCollectionRole) error {
	membership, err := s.collectionRepo.FindUserCollectionRole(ctx, userID, collectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of collection",
				slog.String("user_id", userID),
				slog.String("collection_id", collectionID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user collection role",
			slog.String("user_id", userID),
			slog.String("collection_id", collectionID))
		return err
	}

	if !hasRequiredRole(membership.Role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("collection_id", collectionID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}
	return nil
}

// hasRequiredRole checks if the user's role meets or exceeds the required role
func hasRequiredRole(userRole, requiredRole domain.UserCollectionRole) bool {
	switch requiredRole {
	case domain.RoleReadOnly:
		return userRole == domain.RoleReadOnly || userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleMember:
		return userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleAdmin:
		return userRole == domain.RoleAdmin
	default:
		return false
	}
}
