// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, their tasks, and the closed set of
// task statuses and priorities. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
