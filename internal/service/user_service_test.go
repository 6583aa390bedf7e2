package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserService_Register(t *testing.T) {
	log, _ := logger.NewTestLogger()

	t.Run("successful registration", func(t *testing.T) {
		userStore := new(mocks.TestifyMockUserStore)
		userStore.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Ada" && u.Email == "ada@example.com" && u.Password == "secret1"
		})).Return(nil)

		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, log)
		user, err := svc.Register(context.Background(), "  Ada ", "Ada@Example.com", "secret1")

		require.NoError(t, err)
		assert.False(t, user.ID.IsZero())
		assert.Equal(t, "ada@example.com", user.Email)
		userStore.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userStore := new(mocks.TestifyMockUserStore)
		userStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, log)
		user, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("store failure", func(t *testing.T) {
		dbErr := errors.New("connection reset")
		userStore := new(mocks.TestifyMockUserStore)
		userStore.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, log)
		_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("missing name", func(t *testing.T) {
		userStore := new(mocks.TestifyMockUserStore)

		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, log)
		_, err := svc.Register(context.Background(), "   ", "ada@example.com", "secret1")

		assert.ErrorIs(t, err, domain.ErrEmptyName)
		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	log, _ := logger.NewTestLogger()
	existing := &domain.User{
		ID:             primitive.NewObjectID(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "hash",
	}
	dbErr := errors.New("connection refused")

	tests := []struct {
		name        string
		email       string
		lookupUser  *domain.User
		lookupErr   error
		verifyOK    bool
		wantErr     error
		wantCompare int
	}{
		{
			name:        "valid credentials",
			email:       "ADA@example.com",
			lookupUser:  existing,
			verifyOK:    true,
			wantCompare: 1,
		},
		{
			name:        "wrong password",
			email:       "ada@example.com",
			lookupUser:  existing,
			verifyOK:    false,
			wantErr:     auth.ErrInvalidCredentials,
			wantCompare: 1,
		},
		{
			name:      "unknown email",
			email:     "nobody@example.com",
			lookupErr: store.ErrUserNotFound,
			wantErr:   auth.ErrInvalidCredentials,
		},
		{
			name:      "store failure",
			email:     "ada@example.com",
			lookupErr: dbErr,
			wantErr:   dbErr,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			userStore := new(mocks.TestifyMockUserStore)
			userStore.On("GetByEmail", mock.Anything, domain.NormalizeEmail(tc.email)).
				Return(tc.lookupUser, tc.lookupErr)
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: tc.verifyOK}

			svc := service.NewUserService(userStore, verifier, log)
			user, err := svc.Authenticate(context.Background(), tc.email, "secret1")

			assert.Equal(t, tc.wantCompare, verifier.CompareCallCount)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, existing.ID, user.ID)
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	log, _ := logger.NewTestLogger()
	user := &domain.User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", HashedPassword: "h"}
	svc := service.NewUserService(mocks.NewMockUserStore(user), &mocks.MockPasswordVerifier{}, log)

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUser(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestNewUserService_PanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() {
		service.NewUserService(nil, &mocks.MockPasswordVerifier{}, nil)
	})
}
