package dto

import (
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// --- Collection DTOs ---

// CreateCollectionRequest defines data for creating a new collection.
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Acronym     string `json:"acronym" binding:"required,min=2,max=16"`
	Description string `json:"description"`
}

// CollectionResponse defines data returned for a collection.
type CollectionResponse struct {
	CollectionID  string    `json:"collectionID"`
	Name          string    `json:"name"`
	Acronym       string    `json:"acronym"`
	Description   string    `json:"description"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID
}

// ToCollectionResponse converts domain.Collection to DTO.
func ToCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		CollectionID:  c.CollectionID,
		Name:          c.Name,
		Acronym:       c.Acronym,
		Description:   c.Description,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ListCollectionsResponse wraps a list of collections.
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
}

// ToListCollectionsResponse converts a slice of domain.Collection to DTO.
func ToListCollectionsResponse(cs []domain.Collection) ListCollectionsResponse {
	list := make([]CollectionResponse, len(cs))
	for i, c := range cs {
		list[i] = ToCollectionResponse(&c)
	}
	return ListCollectionsResponse{Collections: list}
}

// --- User Collection Membership DTOs ---

// AddUserToCollectionRequest defines data for adding a user to a collection.
type AddUserToCollectionRequest struct {
	UserID string                    `json:"userID" binding:"required"`
	Role   domain.UserCollectionRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// UserCollectionResponse defines data returned about a user's membership.
type UserCollectionResponse struct {
	UserID       string                    `json:"userID"`
	UserName     string                    `json:"userName,omitempty"`
	CollectionID string                    `json:"collectionID"`
	Role         domain.UserCollectionRole `json:"role"`
	JoinedAt     time.Time                 `json:"joinedAt"`
}

// ToUserCollectionResponse converts domain.UserCollection to DTO.
func ToUserCollectionResponse(uc *domain.UserCollection) UserCollectionResponse {
	return UserCollectionResponse{
		UserID:       uc.UserID,
		UserName:     uc.UserName,
		CollectionID: uc.CollectionID,
		Role:         uc.Role,
		JoinedAt:     uc.JoinedAt,
	}
}
