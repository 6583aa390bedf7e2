package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/phrazzld/task-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// Pagination describes the window a TaskPage covers.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks      []*domain.Task `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

// StatusCounts holds per-status task counts.
type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// PriorityCounts holds per-priority task counts.
type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// TaskStats summarizes a user's tasks.
type TaskStats struct {
	Status   StatusCounts   `json:"status"`
	Priority PriorityCounts `json:"priority"`
	Overdue  int            `json:"overdue"`
	Total    int            `json:"total"`
}

// TaskService provides the task use cases. Every method is scoped to owner.
type TaskService interface {
	// List returns the page of owner's tasks selected by q.
	List(ctx context.Context, owner primitive.ObjectID, q validation.TaskQuery) (*TaskPage, error)

	// Get returns a single task.
	// Returns store.ErrTaskNotFound if the task does not exist or belongs to someone else.
	Get(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)

	// Create stores a new task owned by owner, applying the status and priority defaults.
	Create(ctx context.Context, owner primitive.ObjectID, in validation.TaskCreate) (*domain.Task, error)

	// Update applies patch and returns the updated task.
	Update(ctx context.Context, owner, id primitive.ObjectID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task and returns its last state.
	Delete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error)

	// Stats counts owner's tasks by status, priority and overdue state.
	Stats(ctx context.Context, owner primitive.ObjectID) (*TaskStats, error)
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
	now    func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService backed by tasks.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger) TaskService {
	return newTaskService(tasks, logger, func() time.Time { return time.Now().UTC() })
}

func newTaskService(tasks store.TaskStore, logger *slog.Logger, now func() time.Time) *taskServiceImpl {
	if tasks == nil {
		panic("task store cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
		now:    now,
	}
}

// PageCount returns how many pages of size limit hold total items.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (s *taskServiceImpl) List(
	ctx context.Context,
	owner primitive.ObjectID,
	q validation.TaskQuery,
) (*TaskPage, error) {
	filter := store.TaskFilter{
		Status:   q.Status,
		Priority: q.Priority,
		Search:   q.Search,
	}
	opts := store.FindOptions{
		SortBy:     q.SortBy,
		Descending: q.Descending(),
		Offset:     (q.Page - 1) * q.Limit,
		Limit:      q.Limit,
	}

	var (
		tasks []*domain.Task
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.Find(gctx, owner, filter, opts)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.tasks.Count(gctx, owner, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	s.logger.DebugContext(ctx, "listed tasks",
		slog.String("user_id", owner.Hex()),
		slog.Int("returned", len(tasks)),
		slog.Int("total", total))

	return &TaskPage{
		Tasks: tasks,
		Pagination: Pagination{
			Total: total,
			Page:  q.Page,
			Pages: PageCount(total, q.Limit),
			Limit: q.Limit,
		},
	}, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	task, err := s.tasks.FindOne(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (s *taskServiceImpl) Create(
	ctx context.Context,
	owner primitive.ObjectID,
	in validation.TaskCreate,
) (*domain.Task, error) {
	task, err := domain.NewTask(owner, in.Title, in.Description, in.Status, in.Priority, in.DueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.InfoContext(ctx, "task created",
		slog.String("task_id", task.ID.Hex()),
		slog.String("user_id", owner.Hex()))

	return task, nil
}

func (s *taskServiceImpl) Update(
	ctx context.Context,
	owner, id primitive.ObjectID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	task, err := s.tasks.FindOneAndUpdate(ctx, owner, id, patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.InfoContext(ctx, "task updated",
		slog.String("task_id", id.Hex()),
		slog.String("user_id", owner.Hex()),
		slog.Bool("no_op", patch.IsEmpty()))

	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	task, err := s.tasks.FindOneAndDelete(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.InfoContext(ctx, "task deleted",
		slog.String("task_id", id.Hex()),
		slog.String("user_id", owner.Hex()))

	return task, nil
}

func (s *taskServiceImpl) Stats(ctx context.Context, owner primitive.ObjectID) (*TaskStats, error) {
	now := s.now()
	stats := &TaskStats{}

	counts := []struct {
		filter store.TaskFilter
		dst    *int
	}{
		{statusFilter(domain.StatusPending), &stats.Status.Pending},
		{statusFilter(domain.StatusInProgress), &stats.Status.InProgress},
		{statusFilter(domain.StatusCompleted), &stats.Status.Completed},
		{priorityFilter(domain.PriorityHigh), &stats.Priority.High},
		{priorityFilter(domain.PriorityMedium), &stats.Priority.Medium},
		{priorityFilter(domain.PriorityLow), &stats.Priority.Low},
		{store.TaskFilter{OverdueAt: &now}, &stats.Overdue},
		{store.TaskFilter{}, &stats.Total},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		g.Go(func() error {
			n, err := s.tasks.Count(gctx, owner, c.filter)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute task stats: %w", err)
	}

	return stats, nil
}

func statusFilter(s domain.TaskStatus) store.TaskFilter {
	return store.TaskFilter{Status: &s}
}

func priorityFilter(p domain.TaskPriority) store.TaskFilter {
	return store.TaskFilter{Priority: &p}
}
