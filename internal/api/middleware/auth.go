package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
)

// Client-facing authentication failure messages.
const (
	MsgNoToken       = "Access denied. No token provided."
	MsgInvalidToken  = "Invalid token."
	MsgMissingSecret = "JWT secret not configured"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      service.UserService
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users service.UserService, logger *slog.Logger) *AuthMiddleware {
	if jwtService == nil {
		panic("jwtService cannot be nil") // ALLOW-PANIC
	}
	if users == nil {
		panic("users cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the bearer token, resolves its subject to a user and
// stores the user in the request context. Every failure writes a response and
// stops the chain.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgNoToken)
			return
		}

		user, err := m.resolve(r, token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingSecret) {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgMissingSecret, err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidToken, err,
				shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

// resolve verifies token and loads its user. Panics raised by either
// collaborator are converted into errors.
func (m *AuthMiddleware) resolve(r *http.Request, token string) (user *domain.User, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.ErrorContext(r.Context(), "panic during authentication", slog.Any("panic", rec))
			user, err = nil, fmt.Errorf("%w: recovered panic: %v", auth.ErrInvalidToken, rec)
		}
	}()

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	user, err = m.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("token subject lookup failed: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("token subject lookup failed: %w", store.ErrUserNotFound)
	}
	return user, nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}
