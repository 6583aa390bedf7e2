package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// Query defaults and limits for task listing.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = store.SortByCreatedAt
	DefaultSortOrder = "desc"
)

// Registration is a validated sign-up request.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Login is a validated sign-in request.
type Login struct {
	Email    string
	Password string
}

// TaskCreate is a validated task creation request. Zero Status and Priority
// mean the client left them out.
type TaskCreate struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// TaskQuery is a validated list request with defaults applied.
type TaskQuery struct {
	Status    *domain.TaskStatus
	Priority  *domain.TaskPriority
	Page      int
	Limit     int
	SortBy    store.TaskSortField
	SortOrder string
	Search    string
}

// Descending reports whether results are ordered high to low.
func (q TaskQuery) Descending() bool {
	return q.SortOrder == "desc"
}

var (
	statusOptions   = enumStrings(domain.TaskStatuses)
	priorityOptions = enumStrings(domain.TaskPriorities)
	sortByOptions   = enumStrings(store.TaskSortFields)
)

var (
	emailField = field{key: "email", kind: kindString, required: true, tag: "email"}

	registrationFields = []field{
		{key: "name", kind: kindString, required: true, trim: true, tag: "min=2,max=50"},
		emailField,
		{key: "password", kind: kindString, required: true, tag: "min=6,max=72," + bcryptLimitTag},
	}

	loginFields = []field{
		emailField,
		{key: "password", kind: kindString, required: true, tag: "min=6"},
	}

	taskCreateFields = taskFields(true)
	taskUpdateFields = taskFields(false)

	taskQueryFields = []field{
		{key: "status", kind: kindEnum, options: statusOptions},
		{key: "priority", kind: kindEnum, options: priorityOptions},
		{key: "page", kind: kindInt, tag: "gte=1"},
		{key: "limit", kind: kindInt, tag: "gte=1,lte=" + strconv.Itoa(MaxLimit)},
		{key: "sortBy", kind: kindEnum, options: sortByOptions},
		{key: "sortOrder", kind: kindEnum, options: []string{"asc", "desc"}},
		{key: "search", kind: kindString, allowEmpty: true},
	}
)

func taskFields(titleRequired bool) []field {
	return []field{
		{
			key:      "title",
			kind:     kindString,
			required: titleRequired,
			trim:     true,
			tag:      "min=1,max=" + strconv.Itoa(domain.MaxTitleLength),
		},
		{
			key:        "description",
			kind:       kindString,
			allowEmpty: true,
			tag:        "max=" + strconv.Itoa(domain.MaxDescriptionLength),
		},
		{key: "status", kind: kindEnum, options: statusOptions},
		{key: "priority", kind: kindEnum, options: priorityOptions},
		{key: "dueDate", kind: kindDate},
	}
}

// ValidateRegistration checks a sign-up body: name, email, password.
func ValidateRegistration(body []byte) (Registration, error) {
	values, verr := validateBody(body, registrationFields)
	if verr != nil {
		return Registration{}, verr
	}
	return Registration{
		Name:     values["name"].(string),
		Email:    strings.ToLower(values["email"].(string)),
		Password: values["password"].(string),
	}, nil
}

// ValidateLogin checks a sign-in body: email, password.
func ValidateLogin(body []byte) (Login, error) {
	values, verr := validateBody(body, loginFields)
	if verr != nil {
		return Login{}, verr
	}
	return Login{
		Email:    strings.ToLower(values["email"].(string)),
		Password: values["password"].(string),
	}, nil
}

// ValidateTaskCreate checks a task creation body. Title is required; the
// remaining fields are optional.
func ValidateTaskCreate(body []byte) (TaskCreate, error) {
	values, verr := validateBody(body, taskCreateFields)
	if verr != nil {
		return TaskCreate{}, verr
	}

	patch := toPatch(values)
	out := TaskCreate{
		Title:   *patch.Title,
		DueDate: patch.DueDate,
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	if patch.Priority != nil {
		out.Priority = *patch.Priority
	}
	return out, nil
}

// ValidateTaskUpdate checks a partial task body. Every field is optional and
// an empty object yields an empty patch.
func ValidateTaskUpdate(body []byte) (domain.TaskPatch, error) {
	values, verr := validateBody(body, taskUpdateFields)
	if verr != nil {
		return domain.TaskPatch{}, verr
	}
	return toPatch(values), nil
}

// ValidateTaskQuery checks list query parameters and applies defaults.
func ValidateTaskQuery(values url.Values) (TaskQuery, error) {
	parsed, verr := checkQuery(values, taskQueryFields)
	if verr != nil {
		return TaskQuery{}, verr
	}

	q := TaskQuery{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    DefaultSortBy,
		SortOrder: DefaultSortOrder,
	}
	if v, ok := parsed["status"].(string); ok {
		status, _ := domain.ParseTaskStatus(v)
		q.Status = &status
	}
	if v, ok := parsed["priority"].(string); ok {
		priority, _ := domain.ParseTaskPriority(v)
		q.Priority = &priority
	}
	if v, ok := parsed["page"].(int); ok {
		q.Page = v
	}
	if v, ok := parsed["limit"].(int); ok {
		q.Limit = v
	}
	if v, ok := parsed["sortBy"].(string); ok {
		q.SortBy = store.TaskSortField(v)
	}
	if v, ok := parsed["sortOrder"].(string); ok {
		q.SortOrder = v
	}
	if v, ok := parsed["search"].(string); ok {
		q.Search = v
	}
	return q, nil
}

func validateBody(body []byte, fields []field) (map[string]any, *Error) {
	obj, verr := decodeObject(body)
	if verr != nil {
		return nil, verr
	}
	return checkBody(obj, fields)
}

// toPatch converts checked task values into a patch. Enum values were
// already matched against their options, so parsing cannot fail.
func toPatch(values map[string]any) domain.TaskPatch {
	var patch domain.TaskPatch
	if v, ok := values["title"].(string); ok {
		patch.Title = &v
	}
	if v, ok := values["description"].(string); ok {
		patch.Description = &v
	}
	if v, ok := values["status"].(string); ok {
		status, _ := domain.ParseTaskStatus(v)
		patch.Status = &status
	}
	if v, ok := values["priority"].(string); ok {
		priority, _ := domain.ParseTaskPriority(v)
		patch.Priority = &priority
	}
	if v, ok := values["dueDate"].(time.Time); ok {
		patch.DueDate = &v
	}
	return patch
}

func enumStrings[T fmt.Stringer](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.String())
	}
	return out
}
