package api

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/phrazzld/task-api/internal/validation"
)

// Client-facing error messages.
const (
	MsgInvalidTaskID      = "Invalid task ID format"
	MsgTaskNotFound       = "Task not found"
	MsgUserNotFound       = "User not found"
	MsgUserExists         = "User already exists with this email"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidToken       = "Invalid token."
	MsgNoToken            = "Access denied. No token provided."
	MsgMissingSecret      = "JWT secret not configured"
	MsgBodyTooLarge       = "Request body too large"
	MsgInvalidEntity      = "Invalid entity data"
	MsgInternal           = "Internal server error"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verr *validation.Error

	switch {
	// Bad request errors
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Duplicate email is reported as a bad request, not a conflict
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	// Default: internal server error, including auth.ErrMissingSecret
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternal
	}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return verr.Message

	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidTaskID

	case errors.Is(err, store.ErrEmailExists):
		return MsgUserExists

	case errors.Is(err, auth.ErrInvalidCredentials):
		return MsgInvalidCredentials

	case errors.Is(err, auth.ErrMissingToken):
		return MsgNoToken

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, domain.ErrUnauthorized):
		return MsgInvalidToken

	case errors.Is(err, auth.ErrMissingSecret):
		return MsgMissingSecret

	case errors.Is(err, store.ErrUserNotFound):
		return MsgUserNotFound

	case errors.Is(err, store.ErrNotFound):
		return MsgTaskNotFound

	case errors.Is(err, shared.ErrBodyTooLarge):
		return MsgBodyTooLarge

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return MsgInvalidEntity

	default:
		return MsgInternal
	}
}

// ErrorResponder writes the uniform error body for any error reaching a
// handler, including recovered panics.
type ErrorResponder struct {
	development bool
}

// NewErrorResponder creates an ErrorResponder. In development mode 5xx bodies
// carry a stack trace.
func NewErrorResponder(development bool) *ErrorResponder {
	return &ErrorResponder{development: development}
}

// HandleError maps err to a status and safe message, logs it and writes the
// response.
func (e *ErrorResponder) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if e.development && status >= http.StatusInternalServerError {
		opts = append(opts, shared.WithStack(string(debug.Stack())))
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
