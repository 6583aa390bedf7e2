// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query construction, error mapping and the translation between
// domain entities and database rows. The schema lives in the embedded
// goose migrations under migrations/.
package postgres
