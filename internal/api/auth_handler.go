package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/validation"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	errors     *ErrorResponder
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	errs *ErrorResponder,
	logger *slog.Logger,
) *AuthHandler {
	if users == nil {
		panic("users cannot be nil") // ALLOW-PANIC
	}
	if jwtService == nil {
		panic("jwtService cannot be nil") // ALLOW-PANIC
	}
	if errs == nil {
		errs = NewErrorResponder(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		errors:     errs,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := shared.ReadBody(w, r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	in, err := validation.ValidateRegistration(body)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, MsgRegistered, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := shared.ReadBody(w, r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	in, err := validation.ValidateLogin(body)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, MsgLoggedIn, user)
}

func (h *AuthHandler) respondWithToken(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	user *domain.User,
) {
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate token", slog.String("user_id", user.ID.Hex()))
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		Message: message,
		Token:   token,
		User:    userToResponse(user),
	})
}
