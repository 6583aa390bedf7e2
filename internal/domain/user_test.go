package domain

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Test User ", " Test@Example.COM ", "password123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID.IsZero() {
		t.Error("Expected non-zero ObjectID")
	}

	if user.Name != "Test User" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}

	if user.Password != "password123" {
		t.Errorf("Expected plaintext password to be kept for hashing, got %q", user.Password)
	}

	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	if _, err := NewUser("", "a@b.co", "password123"); err != ErrEmptyName {
		t.Errorf("Expected error %v, got %v", ErrEmptyName, err)
	}

	if _, err := NewUser("Name", "   ", "password123"); err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	if _, err := NewUser("Name", "a@b.co", ""); err != ErrEmptyPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestUserValidate(t *testing.T) {
	stored := User{
		ID:             primitive.NewObjectID(),
		Name:           "Stored",
		Email:          "stored@example.com",
		HashedPassword: "$2a$10$hash",
	}
	if err := stored.Validate(); err != nil {
		t.Errorf("Expected stored user with only a hash to be valid, got %v", err)
	}

	stored.ID = primitive.NilObjectID
	if err := stored.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()

	parsed, err := ParseID(id.Hex())
	if err != nil || parsed != id {
		t.Fatalf("Expected %s, got %s (err %v)", id.Hex(), parsed.Hex(), err)
	}

	for _, bad := range []string{"", "not-a-valid-id", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", id.Hex() + "0"} {
		if _, err := ParseID(bad); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ParseID(%q): expected ErrInvalidID, got %v", bad, err)
		}
	}
}
