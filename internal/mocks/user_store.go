package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

// NewMockUserStore creates a new mock store with an empty in-memory user set.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface. The default stores the user
// with its plaintext password moved into HashedPassword.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == domain.NormalizeEmail(user.Email) {
			return store.ErrEmailExists
		}
	}

	user.Email = domain.NormalizeEmail(user.Email)
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email = domain.NormalizeEmail(email)
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}
