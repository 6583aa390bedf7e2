package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. The lookup uses the
	// normalized (trimmed, lower-cased) form of email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
