package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given user.
	// Returns ErrMissingSecret if no signing secret is configured.
	GenerateToken(ctx context.Context, userID primitive.ObjectID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrMissingSecret on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of an access token.
type Claims struct {
	// UserID is the identifier of the user the token was issued for.
	UserID primitive.ObjectID

	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
