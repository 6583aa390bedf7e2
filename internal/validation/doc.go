// Package validation checks request input for the auth and task endpoints.
//
// Each input shape has one pure function that takes the raw request body (or
// query values) and returns either a normalized value with defaults applied or
// the first violated constraint as an *Error. Fields are checked in declared
// order; within a field the type is checked first, then presence, then the
// value constraints. Keys that no schema declares are rejected last, in sorted
// order. Messages use the `"field" must ...` wording clients already parse.
package validation
