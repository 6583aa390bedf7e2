// Package service contains the application use cases. It sits between the
// HTTP handlers in internal/api and the persistence interfaces in
// internal/store.
//
// UserService covers registration and credential checks. TaskService covers
// the owner-scoped task operations: paginated listing, creation defaults,
// partial updates and the concurrent stats summary.
//
// Services depend only on store interfaces, so tests run against the mocks in
// internal/mocks.
package service
