package domain

import "time"

// User represents an editorial staff member or submitter account.
type User struct {
	UserID   string `json:"userID"` // Primary Key (e.g., UUID)
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"` // Disabled users fail every workflow transition
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete

	// Refresh token state, never serialized.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// Active reports whether the user may act as the responsible actor of a
// workflow transition.
func (u *User) Active() bool {
	return u.IsActive && u.DeletedAt == nil
}
