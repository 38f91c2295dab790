// Package service contains the account and task use cases of the todo API.
//
// Services sit between the HTTP handlers and the stores. They hash and
// verify credentials, issue tokens, and enforce ownership: every task
// mutation passes the OwnershipGuard inside the same transaction as the
// write. Stores are injected as interfaces from internal/store.
package service
