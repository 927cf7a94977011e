package repositories

import (
	"context"
	"time"

	"github.com/articletrack/articletrack_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserAuthReader defines operations used by authentication
type UserAuthReader interface {
	// FindPasswordHashByUserID retrieves the stored password hash for a user.
	FindPasswordHashByUserID(ctx context.Context, userID string) (string, error)

	// FindRefreshTokenHashByUserID retrieves the stored refresh token hash, if any.
	FindRefreshTokenHashByUserID(ctx context.Context, userID string) (*string, error)
}

// UserAuthWriter defines write operations used by authentication
type UserAuthWriter interface {
	// UpdateRefreshTokenHash stores (or clears) the user's refresh token hash.
	UpdateRefreshTokenHash(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error

	// SetUserActive enables or disables a user account.
	SetUserActive(ctx context.Context, userID string, isActive bool, updatedBy string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserAuthReader
	UserAuthWriter
	UserLifecycleManager
}
