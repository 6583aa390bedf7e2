package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the task API.
// It contains essential user information and authentication details.
type User struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Password       string             `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string             `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// NewUser creates a new User with the given name, email and password.
// The email is trimmed and lower-cased so that uniqueness is case-insensitive.
//
// NOTE: This function only sets up the user structure with the plaintext password.
// The credential store is responsible for hashing it before storage.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        primitive.NewObjectIDFromTimestamp(now),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Format rules (email syntax, lengths) are enforced by the validation layer;
// this only guards the structural invariants.
func (u *User) Validate() error {
	if u.ID.IsZero() {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	// Either a plaintext password awaiting hashing or an existing hash must be present
	if u.Password == "" && u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// NormalizeEmail returns the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseID parses a 24-character hexadecimal identifier.
// Returns an error wrapping ErrInvalidID if s has any other shape.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, NewValidationError("id", "has invalid format", ErrInvalidID)
	}
	return id, nil
}
