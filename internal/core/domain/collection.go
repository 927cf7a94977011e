package domain

import "time"

// Collection is the multi-tenant scope every article, checkin and query
// belongs to. The collection ID is always passed explicitly; there is no
// ambient "current collection".
type Collection struct {
	CollectionID string `json:"collectionID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	Acronym      string `json:"acronym"` // Short code used in URLs and exports
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// UserCollectionRole defines the possible roles a user can have within a
// collection.
type UserCollectionRole string

const (
	RoleAdmin    UserCollectionRole = "ADMIN"
	RoleMember   UserCollectionRole = "MEMBER"
	RoleReadOnly UserCollectionRole = "READONLY"
	RoleRemoved  UserCollectionRole = "REMOVED" // For users who have been removed from the collection
)

// UserCollection represents the membership of a User in a Collection.
type UserCollection struct {
	UserID       string             `json:"userID"`       // FK -> users.user_id
	UserName     string             `json:"userName"`     // Name of the user
	CollectionID string             `json:"collectionID"` // FK -> collections.collection_id
	Role         UserCollectionRole `json:"role"`
	JoinedAt     time.Time          `json:"joinedAt"`
}
