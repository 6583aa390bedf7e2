package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskStore implements store.TaskStore for testing. Without overrides it
// behaves like an owner-scoped in-memory store.
type MockTaskStore struct {
	CreateFn           func(ctx context.Context, task *domain.Task) error
	FindFn             func(ctx context.Context, owner primitive.ObjectID, filter store.TaskFilter, opts store.FindOptions) ([]*domain.Task, error)
	CountFn            func(ctx context.Context, owner primitive.ObjectID, filter store.TaskFilter) (int, error)
	FindOneFn          func(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)
	FindOneAndUpdateFn func(ctx context.Context, owner, id primitive.ObjectID, patch domain.TaskPatch, now time.Time) (*domain.Task, error)
	FindOneAndDeleteFn func(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)

	mu    sync.Mutex
	tasks map[primitive.ObjectID]*domain.Task
}

// NewMockTaskStore creates a mock store seeded with tasks.
func NewMockTaskStore(tasks ...*domain.Task) *MockTaskStore {
	m := &MockTaskStore{tasks: make(map[primitive.ObjectID]*domain.Task)}
	for _, t := range tasks {
		cp := *t
		m.tasks[t.ID] = &cp
	}
	return m
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

// Find implements store.TaskStore
func (m *MockTaskStore) Find(
	ctx context.Context,
	owner primitive.ObjectID,
	filter store.TaskFilter,
	opts store.FindOptions,
) ([]*domain.Task, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, owner, filter, opts)
	}

	matched := m.matching(owner, filter)
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareTasks(matched[i], matched[j], opts.SortBy)
		if c == 0 {
			c = strings.Compare(matched[i].ID.Hex(), matched[j].ID.Hex())
		}
		if opts.Descending {
			c = -c
		}
		return c < 0
	})

	out := make([]*domain.Task, 0)
	for i := opts.Offset; i < len(matched); i++ {
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
		out = append(out, matched[i])
	}
	return out, nil
}

// Count implements store.TaskStore
func (m *MockTaskStore) Count(ctx context.Context, owner primitive.ObjectID, filter store.TaskFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, owner, filter)
	}
	return len(m.matching(owner, filter)), nil
}

// FindOne implements store.TaskStore
func (m *MockTaskStore) FindOne(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	if m.FindOneFn != nil {
		return m.FindOneFn(ctx, owner, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.UserID != owner {
		return nil, store.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

// FindOneAndUpdate implements store.TaskStore
func (m *MockTaskStore) FindOneAndUpdate(
	ctx context.Context,
	owner, id primitive.ObjectID,
	patch domain.TaskPatch,
	now time.Time,
) (*domain.Task, error) {
	if m.FindOneAndUpdateFn != nil {
		return m.FindOneAndUpdateFn(ctx, owner, id, patch, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.UserID != owner {
		return nil, store.ErrTaskNotFound
	}
	patch.Apply(task, now)
	cp := *task
	return &cp, nil
}

// FindOneAndDelete implements store.TaskStore
func (m *MockTaskStore) FindOneAndDelete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	if m.FindOneAndDeleteFn != nil {
		return m.FindOneAndDeleteFn(ctx, owner, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.UserID != owner {
		return nil, store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return task, nil
}

// Len returns the number of stored tasks across all owners.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *MockTaskStore) matching(owner primitive.ObjectID, f store.TaskFilter) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(f.Search)
	var out []*domain.Task
	for _, t := range m.tasks {
		if t.UserID != owner {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if f.OverdueAt != nil && !t.IsOverdue(*f.OverdueAt) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out
}

// compareTasks orders a against b on field, mirroring the SQL store: enums
// sort by their text and missing due dates sort last.
func compareTasks(a, b *domain.Task, field store.TaskSortField) int {
	switch field {
	case store.SortByDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	case store.SortByPriority:
		return strings.Compare(a.Priority.String(), b.Priority.String())
	case store.SortByStatus:
		return strings.Compare(a.Status.String(), b.Status.String())
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
