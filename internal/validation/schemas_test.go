package validation

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error, wantMsg string) {
	t.Helper()
	require.Error(t, err)
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %T", err)
	assert.Equal(t, wantMsg, verr.Message)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
		want    Registration
	}{
		{
			name: "valid",
			body: `{"name":"  Jane Doe ","email":"Jane@Example.com","password":"secret1"}`,
			want: Registration{Name: "Jane Doe", Email: "jane@example.com", Password: "secret1"},
		},
		{name: "empty body", body: ``, wantErr: `"name" is required`},
		{name: "empty object", body: `{}`, wantErr: `"name" is required`},
		{name: "array body", body: `[1,2]`, wantErr: `"value" must be of type object`},
		{name: "null body", body: `null`, wantErr: `"value" must be of type object`},
		{name: "malformed JSON", body: `{"name":`, wantErr: `Invalid JSON payload`},
		{name: "name wrong type", body: `{"name":42}`, wantErr: `"name" must be a string`},
		{name: "name null", body: `{"name":null}`, wantErr: `"name" must be a string`},
		{name: "name empty", body: `{"name":""}`, wantErr: `"name" is not allowed to be empty`},
		{
			name:    "name too short",
			body:    `{"name":"J","email":"j@example.com","password":"secret1"}`,
			wantErr: `"name" length must be at least 2 characters long`,
		},
		{
			name:    "name too long",
			body:    `{"name":"` + strings.Repeat("a", 51) + `","email":"j@example.com","password":"secret1"}`,
			wantErr: `"name" length must be less than or equal to 50 characters long`,
		},
		{
			name:    "name checked before email",
			body:    `{"name":"J","email":"bad"}`,
			wantErr: `"name" length must be at least 2 characters long`,
		},
		{
			name:    "missing email",
			body:    `{"name":"Jane","password":"secret1"}`,
			wantErr: `"email" is required`,
		},
		{
			name:    "invalid email",
			body:    `{"name":"Jane","email":"not-an-email","password":"secret1"}`,
			wantErr: `"email" must be a valid email`,
		},
		{
			name:    "short password",
			body:    `{"name":"Jane","email":"j@example.com","password":"12345"}`,
			wantErr: `"password" length must be at least 6 characters long`,
		},
		{
			name:    "password over bcrypt limit",
			body:    `{"name":"Jane","email":"j@example.com","password":"` + strings.Repeat("p", 73) + `"}`,
			wantErr: `"password" length must be less than or equal to 72 characters long`,
		},
		{
			name:    "unknown keys rejected in sorted order",
			body:    `{"name":"Jane","email":"j@example.com","password":"secret1","zeta":1,"admin":true}`,
			wantErr: `"admin" is not allowed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateRegistration([]byte(tt.body))
			if tt.wantErr != "" {
				assertValidationError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	got, err := ValidateLogin([]byte(`{"email":"USER@example.com","password":"secret1"}`))
	require.NoError(t, err)
	assert.Equal(t, Login{Email: "user@example.com", Password: "secret1"}, got)

	_, err = ValidateLogin([]byte(`{"password":"secret1"}`))
	assertValidationError(t, err, `"email" is required`)

	_, err = ValidateLogin([]byte(`{"email":"user@example.com"}`))
	assertValidationError(t, err, `"password" is required`)

	_, err = ValidateLogin([]byte(`{"email":"user@example.com","password":"short"}`))
	assertValidationError(t, err, `"password" length must be at least 6 characters long`)

	_, err = ValidateLogin([]byte(`{"email":"user@example.com","password":"secret1","name":"x"}`))
	assertValidationError(t, err, `"name" is not allowed`)
}

func TestValidateTaskCreate(t *testing.T) {
	t.Parallel()

	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		body    string
		wantErr string
		want    TaskCreate
	}{
		{
			name: "title only leaves enums unset",
			body: `{"title":"  Buy milk  "}`,
			want: TaskCreate{Title: "Buy milk"},
		},
		{
			name: "all fields",
			body: `{"title":"Report","description":"Q2","status":"in_progress","priority":"high","dueDate":"2025-06-01T00:00:00Z"}`,
			want: TaskCreate{
				Title:       "Report",
				Description: "Q2",
				Status:      domain.StatusInProgress,
				Priority:    domain.PriorityHigh,
				DueDate:     &due,
			},
		},
		{
			name: "calendar date",
			body: `{"title":"Report","dueDate":"2025-06-01"}`,
			want: TaskCreate{Title: "Report", DueDate: &due},
		},
		{
			name: "epoch milliseconds",
			body: `{"title":"Report","dueDate":1748736000000}`,
			want: TaskCreate{Title: "Report", DueDate: &due},
		},
		{
			name: "empty description allowed",
			body: `{"title":"Report","description":""}`,
			want: TaskCreate{Title: "Report"},
		},
		{name: "epoch beyond date range", body: `{"title":"a","dueDate":1e20}`, wantErr: `"dueDate" must be a valid date`},
		{name: "epoch just past limit", body: `{"title":"a","dueDate":9e15}`, wantErr: `"dueDate" must be a valid date`},
		{
			name:    "numeric string beyond date range",
			body:    `{"title":"a","dueDate":"99999999999999999"}`,
			wantErr: `"dueDate" must be a valid date`,
		},
		{
			name:    "epoch before earliest timestamp",
			body:    `{"title":"a","dueDate":-1000000000000000}`,
			wantErr: `"dueDate" must be a valid date`,
		},
		{name: "missing title", body: `{"description":"x"}`, wantErr: `"title" is required`},
		{name: "blank title", body: `{"title":"   "}`, wantErr: `"title" is not allowed to be empty`},
		{
			name:    "title too long",
			body:    `{"title":"` + strings.Repeat("t", 101) + `"}`,
			wantErr: `"title" length must be less than or equal to 100 characters long`,
		},
		{
			name:    "description too long",
			body:    `{"title":"ok","description":"` + strings.Repeat("d", 501) + `"}`,
			wantErr: `"description" length must be less than or equal to 500 characters long`,
		},
		{
			name:    "bad status",
			body:    `{"title":"ok","status":"done"}`,
			wantErr: `"status" must be one of [pending, in_progress, completed]`,
		},
		{
			name:    "status wrong type",
			body:    `{"title":"ok","status":3}`,
			wantErr: `"status" must be one of [pending, in_progress, completed]`,
		},
		{
			name:    "bad priority",
			body:    `{"title":"ok","priority":"urgent"}`,
			wantErr: `"priority" must be one of [low, medium, high]`,
		},
		{name: "bad date", body: `{"title":"ok","dueDate":"tomorrow"}`, wantErr: `"dueDate" must be a valid date`},
		{name: "null date", body: `{"title":"ok","dueDate":null}`, wantErr: `"dueDate" must be a valid date`},
		{name: "owner cannot be supplied", body: `{"title":"ok","userId":"abc"}`, wantErr: `"userId" is not allowed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateTaskCreate([]byte(tt.body))
			if tt.wantErr != "" {
				assertValidationError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTaskUpdate(t *testing.T) {
	t.Parallel()

	patch, err := ValidateTaskUpdate([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty(), "empty object is a valid no-op update")

	patch, err = ValidateTaskUpdate([]byte(`{"status":"completed","description":""}`))
	require.NoError(t, err)
	require.NotNil(t, patch.Status)
	assert.Equal(t, domain.StatusCompleted, *patch.Status)
	require.NotNil(t, patch.Description)
	assert.Equal(t, "", *patch.Description)
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.Priority)
	assert.Nil(t, patch.DueDate)

	_, err = ValidateTaskUpdate([]byte(`{"title":""}`))
	assertValidationError(t, err, `"title" is not allowed to be empty`)

	_, err = ValidateTaskUpdate([]byte(`{"priority":"urgent","title":""}`))
	assertValidationError(t, err, `"title" is not allowed to be empty`)

	_, err = ValidateTaskUpdate([]byte(`"title"`))
	assertValidationError(t, err, `"value" must be of type object`)
}

func TestValidateTaskQuery(t *testing.T) {
	t.Parallel()

	high := domain.PriorityHigh
	pending := domain.StatusPending

	tests := []struct {
		name    string
		query   string
		wantErr string
		want    TaskQuery
	}{
		{
			name:  "defaults",
			query: "",
			want:  TaskQuery{Page: 1, Limit: 10, SortBy: store.SortByCreatedAt, SortOrder: "desc"},
		},
		{
			name:  "all parameters",
			query: "status=pending&priority=high&page=2&limit=5&sortBy=dueDate&sortOrder=asc&search=milk",
			want: TaskQuery{
				Status:    &pending,
				Priority:  &high,
				Page:      2,
				Limit:     5,
				SortBy:    store.SortByDueDate,
				SortOrder: "asc",
				Search:    "milk",
			},
		},
		{
			name:  "empty search allowed",
			query: "search=",
			want:  TaskQuery{Page: 1, Limit: 10, SortBy: store.SortByCreatedAt, SortOrder: "desc"},
		},
		{name: "page not a number", query: "page=abc", wantErr: `"page" must be a number`},
		{name: "page fractional", query: "page=1.5", wantErr: `"page" must be an integer`},
		{name: "page zero", query: "page=0", wantErr: `"page" must be greater than or equal to 1`},
		{
			name:  "page above int32",
			query: "page=3000000000",
			want:  TaskQuery{Page: 3000000000, Limit: 10, SortBy: store.SortByCreatedAt, SortOrder: "desc"},
		},
		{name: "page beyond safe integer", query: "page=9007199254740993", wantErr: `"page" must be a safe number`},
		{name: "limit zero", query: "limit=0", wantErr: `"limit" must be greater than or equal to 1`},
		{name: "limit too large", query: "limit=101", wantErr: `"limit" must be less than or equal to 100`},
		{
			name:    "bad sortBy",
			query:   "sortBy=title",
			wantErr: `"sortBy" must be one of [createdAt, dueDate, priority, status]`,
		},
		{name: "bad sortOrder", query: "sortOrder=up", wantErr: `"sortOrder" must be one of [asc, desc]`},
		{
			name:    "repeated status",
			query:   "status=pending&status=completed",
			wantErr: `"status" must be one of [pending, in_progress, completed]`,
		},
		{
			name:    "status checked before page",
			query:   "page=0&status=nope",
			wantErr: `"status" must be one of [pending, in_progress, completed]`,
		},
		{name: "unknown parameter", query: "owner=someone", wantErr: `"owner" is not allowed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ValidateTaskQuery(values)
			if tt.wantErr != "" {
				assertValidationError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	body := []byte(`{"title":"  padded  "}`)
	original := string(body)
	_, err := ValidateTaskCreate(body)
	require.NoError(t, err)
	assert.Equal(t, original, string(body))

	values := url.Values{"page": {"3"}}
	_, err = ValidateTaskQuery(values)
	require.NoError(t, err)
	assert.Equal(t, url.Values{"page": {"3"}}, values)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "2025-06-01T10:30:00+02:00", want: time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC), ok: true},
		{in: "2025-06-01T10:30:00.5Z", want: time.Date(2025, 6, 1, 10, 30, 0, 5e8, time.UTC), ok: true},
		{in: "2025-06-01T10:30:00", want: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), ok: true},
		{in: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{in: "0", want: time.UnixMilli(0).UTC(), ok: true},
		{in: "8640000000000000", want: time.UnixMilli(8640000000000000).UTC(), ok: true},
		{in: "8640000000000001", ok: false},
		{in: "99999999999999999", ok: false},
		{in: "-1000000000000000", ok: false},
		{in: "", ok: false},
		{in: "06/01/2025", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := parseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}
