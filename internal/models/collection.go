package models

import "time"

// Collection is the row shape for a tenant collection.
type Collection struct {
	CollectionID string `db:"collection_id"`
	Name         string `db:"name"`
	Acronym      string `db:"acronym"`
	Description  string `db:"description"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}

// UserCollection is the row shape of the user-to-collection membership table.
type UserCollection struct {
	UserID       string    `db:"user_id"`
	CollectionID string    `db:"collection_id"`
	Role         string    `db:"role"`
	JoinedAt     time.Time `db:"joined_at"`
}
