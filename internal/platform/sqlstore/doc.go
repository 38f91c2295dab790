// Package sqlstore implements the store interfaces on database/sql for
// PostgreSQL (pgx stdlib driver) and MySQL (go-sql-driver/mysql).
//
// Queries are written once with '?' placeholders and rebound per Dialect.
// Every statement touching an existing task item filters by owner.
package sqlstore
