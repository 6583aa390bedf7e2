package store

import (
	"context"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskSortField names a sortable task attribute as it appears in query strings.
type TaskSortField string

// Sortable task fields.
const (
	SortByCreatedAt TaskSortField = "createdAt"
	SortByDueDate   TaskSortField = "dueDate"
	SortByPriority  TaskSortField = "priority"
	SortByStatus    TaskSortField = "status"
)

func (f TaskSortField) String() string {
	return string(f)
}

// TaskSortFields lists every sortable field.
var TaskSortFields = []TaskSortField{SortByCreatedAt, SortByDueDate, SortByPriority, SortByStatus}

// TaskFilter narrows a task query beyond the owner scope. Zero-valued fields
// do not constrain the result.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	// Search matches case-insensitively as a substring of title or description.
	Search string
	// OverdueAt selects tasks due strictly before the given instant that are
	// not completed.
	OverdueAt *time.Time
}

// FindOptions controls ordering and windowing of Find.
type FindOptions struct {
	SortBy     TaskSortField
	Descending bool
	Offset     int
	Limit      int
}

// TaskStore defines the interface for task persistence. Every operation is
// scoped to an owner: a task belonging to another user behaves exactly like
// a task that does not exist.
type TaskStore interface {
	// Create saves a new task. The task's UserID is its owner.
	Create(ctx context.Context, task *domain.Task) error

	// Find returns the owner's tasks matching filter, ordered and windowed by opts.
	// An empty window yields an empty, non-nil slice.
	Find(ctx context.Context, owner primitive.ObjectID, filter TaskFilter, opts FindOptions) ([]*domain.Task, error)

	// Count returns how many of the owner's tasks match filter.
	Count(ctx context.Context, owner primitive.ObjectID, filter TaskFilter) (int, error)

	// FindOne retrieves a single task by id.
	// Returns ErrTaskNotFound if no task with id belongs to owner.
	FindOne(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)

	// FindOneAndUpdate applies patch to the task and returns its new state.
	// UpdatedAt is set to now even when patch is empty.
	// Returns ErrTaskNotFound if no task with id belongs to owner.
	FindOneAndUpdate(
		ctx context.Context,
		owner, id primitive.ObjectID,
		patch domain.TaskPatch,
		now time.Time,
	) (*domain.Task, error)

	// FindOneAndDelete removes the task and returns its last state.
	// Returns ErrTaskNotFound if no task with id belongs to owner.
	FindOneAndDelete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)
}
