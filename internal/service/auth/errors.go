package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMissingSecret indicates no signing secret is configured, so tokens
	// can be neither issued nor verified.
	ErrMissingSecret = errors.New("JWT secret not configured")

	// ErrInvalidCredentials indicates an email/password pair did not match a user
	ErrInvalidCredentials = errors.New("invalid credentials")
)
