// Package api handles incoming HTTP requests for accounts and task items.
// Handlers decode and validate request bodies, call the account and task
// services, and translate service errors into HTTP status codes and safe
// messages.
package api
