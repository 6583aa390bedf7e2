package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/domain"
)

// Error describes the first constraint an input violated.
type Error struct {
	// Field is the offending key, or "value" when the input as a whole is wrong.
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets callers classify the error with errors.Is(err, domain.ErrValidation).
func (e *Error) Unwrap() error {
	return domain.ErrValidation
}

func newError(field, format string, args ...any) *Error {
	return &Error{
		Field:   field,
		Message: fmt.Sprintf(`"%s" `, field) + fmt.Sprintf(format, args...),
	}
}

func errRequired(field string) *Error { return newError(field, "is required") }
func errEmpty(field string) *Error { return newError(field, "is not allowed to be empty") }
func errNotString(field string) *Error { return newError(field, "must be a string") }
func errNotNumber(field string) *Error { return newError(field, "must be a number") }
func errNotInteger(field string) *Error { return newError(field, "must be an integer") }
func errInvalidDate(field string) *Error { return newError(field, "must be a valid date") }
func errNotAllowed(field string) *Error { return newError(field, "is not allowed") }
func errNotObject() *Error { return newError("value", "must be of type object") }
func errOneOf(field string, options []string) *Error {
	return newError(field, "must be one of [%s]", strings.Join(options, ", "))
}

// checkConstraint runs a validator tag against value and translates the first
// failure into an *Error for field.
func checkConstraint(field string, value any, tag string) *Error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newError(field, "is invalid")
	}
	return describe(field, fieldErrs[0])
}

func describe(field string, fe validator.FieldError) *Error {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return errRequired(field)
	case "min", "gte":
		if isString {
			return newError(field, "length must be at least %s characters long", fe.Param())
		}
		return newError(field, "must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		if isString {
			return newError(field, "length must be less than or equal to %s characters long", fe.Param())
		}
		return newError(field, "must be less than or equal to %s", fe.Param())
	case bcryptLimitTag:
		return newError(field, "length must be less than or equal to %d characters long", bcryptMaxBytes)
	case "email":
		return newError(field, "must be a valid email")
	case "oneof":
		return errOneOf(field, strings.Fields(fe.Param()))
	default:
		return newError(field, "is invalid")
	}
}
