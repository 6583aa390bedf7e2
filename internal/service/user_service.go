package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService provides registration and credential checks.
type UserService interface {
	// Register creates a new user with the given name, email and password.
	// Returns an error wrapping store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// Authenticate returns the user whose credentials match.
	// Unknown emails and wrong passwords both yield auth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserServiceImpl {
	if userStore == nil {
		panic("userStore cannot be nil") // ALLOW-PANIC
	}
	if verifier == nil {
		panic("verifier cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// Register creates a new user with the specified name, email and password
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(name, email, password)
	if err != nil {
		s.logger.DebugContext(ctx, "failed to create user object", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.DebugContext(ctx, "attempted to register with existing email")
		} else {
			s.logger.ErrorContext(ctx, "failed to save user", slog.Any("error", err))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.Hex()))
	return user, nil
}

// Authenticate checks email and password against the stored credentials
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "failed to retrieve user by email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.DebugContext(ctx, "password mismatch", slog.String("user_id", user.ID.Hex()))
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}
