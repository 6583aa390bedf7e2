package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task-specific validation errors
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskTitleEmpty  = errors.New("task title cannot be empty")
)

// Field limits shared by the validation layer and the schema.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// TaskStatus is the processing state of a task. The zero value is not a
// valid status.
type TaskStatus uint8

// Possible task status values
const (
	StatusPending TaskStatus = iota + 1
	StatusInProgress
	StatusCompleted
)

// TaskStatuses lists every declared status in declaration order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// String returns the wire form of the status, or "" for undeclared values.
func (s TaskStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return ""
	}
}

// Valid reports whether s is a declared status.
func (s TaskStatus) Valid() bool {
	return s.String() != ""
}

// ParseTaskStatus converts the wire form into a TaskStatus.
func ParseTaskStatus(v string) (TaskStatus, error) {
	switch v {
	case "pending":
		return StatusPending, nil
	case "in_progress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TaskStatus) UnmarshalText(b []byte) error {
	v, err := ParseTaskStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Value implements driver.Valuer.
func (s TaskStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *TaskStatus) Scan(src any) error {
	return scanEnum(src, s.UnmarshalText)
}

// TaskPriority is the relative importance of a task. The zero value is not a
// valid priority.
type TaskPriority uint8

// Possible task priority values
const (
	PriorityLow TaskPriority = iota + 1
	PriorityMedium
	PriorityHigh
)

// TaskPriorities lists every declared priority in declaration order.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// String returns the wire form of the priority, or "" for undeclared values.
func (p TaskPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return ""
	}
}

// Valid reports whether p is a declared priority.
func (p TaskPriority) Valid() bool {
	return p.String() != ""
}

// ParseTaskPriority converts the wire form into a TaskPriority.
func ParseTaskPriority(v string) (TaskPriority, error) {
	switch v {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p TaskPriority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *TaskPriority) UnmarshalText(b []byte) error {
	v, err := ParseTaskPriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Value implements driver.Valuer.
func (p TaskPriority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, uint8(p))
	}
	return p.String(), nil
}

// Scan implements sql.Scanner.
func (p *TaskPriority) Scan(src any) error {
	return scanEnum(src, p.UnmarshalText)
}

func scanEnum(src any, unmarshal func([]byte) error) error {
	switch v := src.(type) {
	case string:
		return unmarshal([]byte(v))
	case []byte:
		return unmarshal(v)
	default:
		return fmt.Errorf("cannot scan %T into enum", src)
	}
}

// Task is a personal to-do record owned by exactly one user.
type Task struct {
	ID          primitive.ObjectID `json:"_id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      TaskStatus         `json:"status"`
	Priority    TaskPriority       `json:"priority"`
	UserID      primitive.ObjectID `json:"userId"`
	DueDate     *time.Time         `json:"dueDate,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewTask creates a Task owned by userID. Missing status and priority fall
// back to pending and medium.
func NewTask(
	userID primitive.ObjectID,
	title, description string,
	status TaskStatus,
	priority TaskPriority,
	dueDate *time.Time,
) (*Task, error) {
	if status == 0 {
		status = StatusPending
	}
	if priority == 0 {
		priority = PriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          primitive.NewObjectIDFromTimestamp(now),
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		Priority:    priority,
		UserID:      userID,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the structural invariants of a Task.
func (t *Task) Validate() error {
	if t.ID.IsZero() {
		return ErrTaskIDEmpty
	}
	if t.UserID.IsZero() {
		return ErrTaskUserIDEmpty
	}
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// IsOverdue reports whether the task has a due date before now and is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// TaskPatch carries the fields supplied to a partial update. Nil fields are
// left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
}

// IsEmpty reports whether the patch changes no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil
}

// Apply writes the supplied fields onto t and refreshes UpdatedAt.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	t.UpdatedAt = now
}
