package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// bcrypt only considers the first 72 bytes of a password.
const (
	bcryptMaxBytes = 72
	bcryptLimitTag = "bcryptlimit"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// ALLOW-PANIC
	if err := v.RegisterValidation(bcryptLimitTag, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	}); err != nil {
		panic(err)
	}
	return v
}

type fieldKind uint8

const (
	kindString fieldKind = iota + 1
	kindEnum
	kindDate
	kindInt
)

// field declares one key of an input schema.
type field struct {
	key        string
	kind       fieldKind
	required   bool
	allowEmpty bool
	trim       bool
	// tag holds validator constraints applied after the type and presence checks.
	tag     string
	options []string
}

// decodeObject parses a JSON body into its top-level members. An empty body
// is treated as an empty object.
func decodeObject(body []byte) (map[string]json.RawMessage, *Error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if trimmed[0] != '{' {
		return nil, errNotObject()
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, &Error{Field: "value", Message: "Invalid JSON payload"}
	}
	return obj, nil
}

// checkBody validates obj against fields and returns the parsed values of the
// keys that were present: string for kindString and kindEnum, time.Time for kindDate.
func checkBody(obj map[string]json.RawMessage, fields []field) (map[string]any, *Error) {
	values := make(map[string]any, len(fields))

	for _, f := range fields {
		raw, present := obj[f.key]
		if !present {
			if f.required {
				return nil, errRequired(f.key)
			}
			continue
		}

		var (
			v   any
			err *Error
		)
		switch f.kind {
		case kindEnum:
			v, err = checkEnum(f, raw)
		case kindDate:
			v, err = checkDate(f, raw)
		default:
			v, err = checkString(f, raw)
		}
		if err != nil {
			return nil, err
		}
		values[f.key] = v
	}

	if err := rejectUnknown(keysOf(obj), fields); err != nil {
		return nil, err
	}
	return values, nil
}

func checkString(f field, raw json.RawMessage) (string, *Error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) {
		return "", errNotString(f.key)
	}
	return checkStringValue(f, s)
}

func checkStringValue(f field, s string) (string, *Error) {
	if f.trim {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		if f.allowEmpty {
			return s, nil
		}
		return "", errEmpty(f.key)
	}
	if f.tag != "" {
		if err := checkConstraint(f.key, s, f.tag); err != nil {
			return "", err
		}
	}
	return s, nil
}

func checkEnum(f field, raw json.RawMessage) (string, *Error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || isNull(raw) || !slices.Contains(f.options, s) {
		return "", errOneOf(f.key, f.options)
	}
	return s, nil
}

func checkDate(f field, raw json.RawMessage) (time.Time, *Error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && !isNull(raw) {
		if t, ok := parseDate(s); ok {
			return t, nil
		}
		return time.Time{}, errInvalidDate(f.key)
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil && !isNull(raw) {
		if t, ok := fromEpochMillis(ms); ok {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDate(f.key)
}

const (
	// maxEpochMillis is the largest magnitude a JavaScript Date accepts.
	maxEpochMillis = 8.64e15
	// maxSafeInteger is the largest integer a float64 represents exactly.
	maxSafeInteger = 1<<53 - 1
)

// earliestTimestamp is the lower bound of a Postgres timestamptz (4713 BC).
var earliestTimestamp = time.Date(-4712, time.January, 1, 0, 0, 0, 0, time.UTC)

// fromEpochMillis converts epoch milliseconds into a time the database can
// store.
func fromEpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	t := time.UnixMilli(int64(ms)).UTC()
	if t.Before(earliestTimestamp) {
		return time.Time{}, false
	}
	return t, true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate accepts RFC 3339 timestamps, calendar dates and epoch milliseconds.
// Timestamps without a zone are read as UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpochMillis(float64(ms))
	}
	return time.Time{}, false
}

// checkQuery validates url.Values against fields. Integers are returned as int,
// everything else as string. Repeated keys fail the type check.
func checkQuery(values url.Values, fields []field) (map[string]any, *Error) {
	parsed := make(map[string]any, len(fields))

	for _, f := range fields {
		vs, present := values[f.key]
		if !present {
			if f.required {
				return nil, errRequired(f.key)
			}
			continue
		}

		switch f.kind {
		case kindEnum:
			if len(vs) != 1 || !slices.Contains(f.options, vs[0]) {
				return nil, errOneOf(f.key, f.options)
			}
			parsed[f.key] = vs[0]
		case kindInt:
			if len(vs) != 1 {
				return nil, errNotNumber(f.key)
			}
			n, err := checkInt(f, vs[0])
			if err != nil {
				return nil, err
			}
			parsed[f.key] = n
		default:
			if len(vs) != 1 {
				return nil, errNotString(f.key)
			}
			s, err := checkStringValue(f, vs[0])
			if err != nil {
				return nil, err
			}
			parsed[f.key] = s
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	if err := rejectUnknown(keys, fields); err != nil {
		return nil, err
	}
	return parsed, nil
}

func checkInt(f field, s string) (int, *Error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumber(f.key)
	}
	if v != math.Trunc(v) {
		return 0, errNotInteger(f.key)
	}
	if math.Abs(v) > maxSafeInteger {
		return 0, newError(f.key, "must be a safe number")
	}
	n := int(v)
	if f.tag != "" {
		if err := checkConstraint(f.key, n, f.tag); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func rejectUnknown(keys []string, fields []field) *Error {
	sort.Strings(keys)
	for _, k := range keys {
		if !slices.ContainsFunc(fields, func(f field) bool { return f.key == k }) {
			return errNotAllowed(k)
		}
	}
	return nil
}

func keysOf(obj map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	return keys
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
