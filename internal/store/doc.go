// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Task operations take the owner id as an explicit argument so that no
// caller can reach a task without naming whose it is.
package store
