package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestifyMockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Find is a mock implementation of store.TaskStore.Find
func (m *TestifyMockTaskStore) Find(
	ctx context.Context,
	owner primitive.ObjectID,
	filter store.TaskFilter,
	opts store.FindOptions,
) ([]*domain.Task, error) {
	args := m.Called(ctx, owner, filter, opts)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Count is a mock implementation of store.TaskStore.Count
func (m *TestifyMockTaskStore) Count(ctx context.Context, owner primitive.ObjectID, filter store.TaskFilter) (int, error) {
	args := m.Called(ctx, owner, filter)
	return args.Int(0), args.Error(1)
}

// FindOne is a mock implementation of store.TaskStore.FindOne
func (m *TestifyMockTaskStore) FindOne(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	args := m.Called(ctx, owner, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindOneAndUpdate is a mock implementation of store.TaskStore.FindOneAndUpdate
func (m *TestifyMockTaskStore) FindOneAndUpdate(
	ctx context.Context,
	owner, id primitive.ObjectID,
	patch domain.TaskPatch,
	now time.Time,
) (*domain.Task, error) {
	args := m.Called(ctx, owner, id, patch, now)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindOneAndDelete is a mock implementation of store.TaskStore.FindOneAndDelete
func (m *TestifyMockTaskStore) FindOneAndDelete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	args := m.Called(ctx, owner, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}
