package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantDuplicate bool
	}{
		{name: "nil error"},
		{name: "generic error", err: errors.New("some error")},
		{name: "ErrNotFound", err: ErrNotFound, wantNotFound: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, wantNotFound: true},
		{name: "wrapped ErrUserNotFound", err: fmt.Errorf("lookup: %w", ErrUserNotFound), wantNotFound: true},
		{name: "ErrDuplicate", err: ErrDuplicate, wantDuplicate: true},
		{name: "wrapped ErrEmailExists", err: fmt.Errorf("create: %w", ErrEmailExists), wantDuplicate: true},
		{
			name:         "StoreError wrapping ErrTaskNotFound",
			err:          NewStoreError("task", "update", "no rows", ErrTaskNotFound),
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNotFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantDuplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	err := NewStoreError("task", "delete", "statement failed", errors.New("boom"))
	assert.Equal(t, "delete operation on task failed: statement failed: boom", err.Error())
	assert.Equal(t, "boom", errors.Unwrap(err).Error())

	bare := NewStoreError("user", "create", "invalid", nil)
	assert.Equal(t, "create operation on user failed: invalid", bare.Error())
}
