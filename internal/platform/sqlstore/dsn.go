package sqlstore

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NormalizeDSN adjusts a connection string for d. MySQL DSNs are forced to
// parse DATE/DATETIME into time.Time in UTC and to report matched rather than
// changed rows, so an UPDATE that rewrites identical values still counts.
func NormalizeDSN(d Dialect, dsn string) (string, error) {
	if d != MySQL {
		return dsn, nil
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
