package sqlstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/todo-api/internal/store"
)

// Driver names registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect int

// Supported dialects.
const (
	Postgres Dialect = iota + 1
	MySQL
)

// DialectForDriver returns the dialect for a database/sql driver name.
func DialectForDriver(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres, "postgres", "postgresql":
		return Postgres, nil
	case DriverMySQL:
		return MySQL, nil
	default:
		return 0, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

// DriverName is the database/sql driver for d.
func (d Dialect) DriverName() string {
	if d == MySQL {
		return DriverMySQL
	}
	return DriverPostgres
}

// GooseDialect is the goose dialect name for d.
func (d Dialect) GooseDialect() string {
	return d.String()
}

// Placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Rebind rewrites '?' markers in query into d's placeholder syntax. Queries
// passed here must not contain '?' inside literals.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// LikeOperator is the case-sensitive LIKE operator for d.
func (d Dialect) LikeOperator() string {
	if d == MySQL {
		return "LIKE BINARY"
	}
	return "LIKE"
}

// insertID executes an INSERT written with '?' markers and returns the
// generated id column.
func (d Dialect) insertID(ctx context.Context, db store.DBTX, query string, args ...any) (int64, error) {
	if d == Postgres {
		var id int64
		if err := db.QueryRowContext(ctx, d.Rebind(query)+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
