// Package api handles incoming HTTP requests for the task API. Handlers read
// and validate input through internal/validation, call the services in
// internal/service, and write JSON responses. Every failure goes through
// ErrorResponder, which maps errors to status codes and safe messages.
package api
