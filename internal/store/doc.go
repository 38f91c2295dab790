// Package store defines the persistence contracts for accounts and task
// items. Implementations execute parameterized queries against a relational
// store; callers depend only on these interfaces and the sentinel errors.
package store
