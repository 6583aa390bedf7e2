package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// hashPrefixVerifier matches the "hashed:" convention of MockUserStore.Create.
func hashPrefixVerifier() *mocks.MockPasswordVerifier {
	return &mocks.MockPasswordVerifier{
		CompareFn: func(hashed, password string) error {
			if hashed != "hashed:"+password {
				return auth.ErrInvalidCredentials
			}
			return nil
		},
	}
}

func newTestAuthHandler(t *testing.T, users *mocks.MockUserStore, jwtService auth.JWTService) *AuthHandler {
	t.Helper()
	log, _ := logger.NewTestLogger()
	userService := service.NewUserService(users, hashPrefixVerifier(), log)
	return NewAuthHandler(userService, jwtService, NewErrorResponder(false), log)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	t.Parallel()

	existing := &domain.User{
		ID:             primitive.NewObjectID(),
		Name:           "Taken",
		Email:          "taken@example.com",
		HashedPassword: "hashed:secret1",
	}

	tests := []struct {
		name       string
		body       string
		jwtErr     error
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid registration",
			body:       `{"name":"Ada","email":"Ada@Example.com","password":"secret1"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       `{"name":"Ada","email":"nope","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  `"email" must be a valid email`,
		},
		{
			name:       "password too short",
			body:       `{"name":"Ada","email":"ada@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  `"password" length must be at least 6 characters long`,
		},
		{
			name:       "missing name",
			body:       `{"email":"ada@example.com","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  `"name" is required`,
		},
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON payload",
		},
		{
			name:       "duplicate email",
			body:       `{"name":"Ada","email":"TAKEN@example.com","password":"secret1"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  MsgUserExists,
		},
		{
			name:       "missing secret",
			body:       `{"name":"Ada","email":"new@example.com","password":"secret1"}`,
			jwtErr:     auth.ErrMissingSecret,
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgMissingSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{Token: "test-token", Err: tt.jwtErr}
			handler := newTestAuthHandler(t, mocks.NewMockUserStore(existing), jwtService)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.Register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				assert.Equal(t, false, body["success"])
				return
			}

			assert.Equal(t, MsgRegistered, body["message"])
			assert.Equal(t, "test-token", body["token"])
			user := body["user"].(map[string]interface{})
			assert.Equal(t, "Ada", user["name"])
			assert.Equal(t, "ada@example.com", user["email"])
			assert.Len(t, user["id"], 24)
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user := &domain.User{
		ID:             primitive.NewObjectID(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "hashed:secret1",
	}

	tests := []struct {
		name       string
		body       string
		lookupErr  error
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid login",
			body:       `{"email":"ADA@example.com","password":"secret1"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"email":"ada@example.com","password":"wrong-pass"}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  MsgInvalidCredentials,
		},
		{
			name:       "unknown email",
			body:       `{"email":"ghost@example.com","password":"secret1"}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  MsgInvalidCredentials,
		},
		{
			name:       "missing password",
			body:       `{"email":"ada@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  `"password" is required`,
		},
		{
			name:       "unknown field",
			body:       `{"email":"ada@example.com","password":"secret1","remember":true}`,
			wantStatus: http.StatusBadRequest,
			wantError:  `"remember" is not allowed`,
		},
		{
			name:       "store failure",
			body:       `{"email":"ada@example.com","password":"secret1"}`,
			lookupErr:  errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := mocks.NewMockUserStore(user)
			if tt.lookupErr != nil {
				users.GetByEmailFn = func(context.Context, string) (*domain.User, error) {
					return nil, tt.lookupErr
				}
			}
			var tokenFor primitive.ObjectID
			jwtService := &mocks.MockJWTService{
				GenerateTokenFn: func(_ context.Context, id primitive.ObjectID) (string, error) {
					tokenFor = id
					return "login-token", nil
				},
			}
			handler := newTestAuthHandler(t, users, jwtService)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				assert.True(t, tokenFor.IsZero())
				return
			}

			assert.Equal(t, MsgLoggedIn, body["message"])
			assert.Equal(t, "login-token", body["token"])
			assert.Equal(t, user.ID, tokenFor)
		})
	}
}
