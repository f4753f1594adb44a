package storage

import (
	"context"

	"github.com/iudanet/issuekeeper/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by exact email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser updates name, email, password hash and updated_at
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrUserAlreadyExists if the new email belongs to someone else
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID together with the user's issues
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID string) error
}
