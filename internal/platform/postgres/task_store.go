package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const taskColumns = "id, user_id, title, description, status, priority, due_date, created_at, updated_at"

// sortColumns maps query-string sort fields onto table columns.
var sortColumns = map[store.TaskSortField]string{
	store.SortByCreatedAt: "created_at",
	store.SortByDueDate:   "due_date",
	store.SortByPriority:  "priority",
	store.SortByStatus:    "status",
}

// likeEscaper escapes LIKE metacharacters so search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// predicate accumulates AND-ed conditions and their positional arguments.
type predicate struct {
	clauses []string
	args    []any
}

// ownerScope starts every task WHERE clause. No task statement is built
// without it.
func ownerScope(owner primitive.ObjectID) *predicate {
	p := &predicate{}
	return p.and("user_id = ?", owner.Hex())
}

// bind appends v to the argument list and returns its placeholder.
func (p *predicate) bind(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// and adds clause, replacing every "?" with a single placeholder bound to v.
func (p *predicate) and(clause string, v any) *predicate {
	p.clauses = append(p.clauses, strings.ReplaceAll(clause, "?", p.bind(v)))
	return p
}

// filter adds the optional TaskFilter constraints.
func (p *predicate) filter(f store.TaskFilter) *predicate {
	if f.Status != nil {
		p.and("status = ?", f.Status.String())
	}
	if f.Priority != nil {
		p.and("priority = ?", f.Priority.String())
	}
	if f.Search != "" {
		p.and(`(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\')`,
			"%"+likeEscaper.Replace(f.Search)+"%")
	}
	if f.OverdueAt != nil {
		p.and("due_date < ?", *f.OverdueAt)
		p.clauses = append(p.clauses, "status <> 'completed'")
	}
	return p
}

func (p *predicate) where() string {
	return strings.Join(p.clauses, " AND ")
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		task.ID.Hex(),
		task.UserID.Hex(),
		task.Title,
		nullString(task.Description),
		task.Status.String(),
		task.Priority.String(),
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to insert task", "error", err, "task_id", task.ID.Hex())
		return store.NewStoreError("task", "insert", "statement failed", MapError(err))
	}

	return nil
}

// Find implements store.TaskStore.Find
func (s *PostgresTaskStore) Find(
	ctx context.Context,
	owner primitive.ObjectID,
	filter store.TaskFilter,
	opts store.FindOptions,
) ([]*domain.Task, error) {
	p := ownerScope(owner).filter(filter)

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = sortColumns[store.SortByCreatedAt]
	}
	direction := "ASC"
	if opts.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s ORDER BY %s %s, id %s",
		taskColumns, p.where(), column, direction, direction)
	if opts.Limit > 0 {
		query += " LIMIT " + p.bind(opts.Limit)
	}
	if opts.Offset > 0 {
		query += " OFFSET " + p.bind(opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, p.args...)
	if err != nil {
		s.logger.Error("failed to query tasks", "error", err, "owner_id", owner.Hex())
		return nil, store.NewStoreError("task", "query", "statement failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close task rows", "error", closeErr)
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "iterate", "statement failed", MapError(err))
	}

	return tasks, nil
}

// Count implements store.TaskStore.Count
func (s *PostgresTaskStore) Count(
	ctx context.Context,
	owner primitive.ObjectID,
	filter store.TaskFilter,
) (int, error) {
	p := ownerScope(owner).filter(filter)

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE "+p.where(), p.args...).Scan(&count)
	if err != nil {
		s.logger.Error("failed to count tasks", "error", err, "owner_id", owner.Hex())
		return 0, store.NewStoreError("task", "count", "statement failed", MapError(err))
	}

	return count, nil
}

// FindOne implements store.TaskStore.FindOne
func (s *PostgresTaskStore) FindOne(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	p := ownerScope(owner).and("id = ?", id.Hex())
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE "+p.where(), p.args...)
	return scanTaskRow(row)
}

// FindOneAndUpdate implements store.TaskStore.FindOneAndUpdate
func (s *PostgresTaskStore) FindOneAndUpdate(
	ctx context.Context,
	owner, id primitive.ObjectID,
	patch domain.TaskPatch,
	now time.Time,
) (*domain.Task, error) {
	p := ownerScope(owner).and("id = ?", id.Hex())

	var sets []string
	if patch.Title != nil {
		sets = append(sets, "title = "+p.bind(*patch.Title))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+p.bind(nullString(*patch.Description)))
	}
	if patch.Status != nil {
		sets = append(sets, "status = "+p.bind(patch.Status.String()))
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = "+p.bind(patch.Priority.String()))
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = "+p.bind(*patch.DueDate))
	}
	sets = append(sets, "updated_at = "+p.bind(now))

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE %s RETURNING %s",
		strings.Join(sets, ", "), p.where(), taskColumns)

	task, err := scanTaskRow(s.db.QueryRowContext(ctx, query, p.args...))
	if err != nil && !store.IsNotFoundError(err) {
		s.logger.Error("failed to update task", "error", err, "task_id", id.Hex())
	}
	return task, err
}

// FindOneAndDelete implements store.TaskStore.FindOneAndDelete
func (s *PostgresTaskStore) FindOneAndDelete(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
	p := ownerScope(owner).and("id = ?", id.Hex())
	row := s.db.QueryRowContext(ctx, "DELETE FROM tasks WHERE "+p.where()+" RETURNING "+taskColumns, p.args...)

	task, err := scanTaskRow(row)
	if err != nil && !store.IsNotFoundError(err) {
		s.logger.Error("failed to delete task", "error", err, "task_id", id.Hex())
	}
	return task, err
}

func scanTaskRow(row rowScanner) (*domain.Task, error) {
	task, err := scanTask(row)
	if err != nil && IsNotFound(err) {
		return nil, store.ErrTaskNotFound
	}
	return task, err
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		id, userID  string
		description sql.NullString
		dueDate     sql.NullTime
	)

	err := row.Scan(
		&id,
		&userID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", MapError(err))
	}

	if task.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("stored task id %q is malformed: %w", id, err)
	}
	if task.UserID, err = primitive.ObjectIDFromHex(userID); err != nil {
		return nil, fmt.Errorf("stored owner id %q is malformed: %w", userID, err)
	}
	task.Description = description.String
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		task.DueDate = &d
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
