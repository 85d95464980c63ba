// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/guit-county/guit-portal/internal/config"
)

// MySQL builds a go-sql-driver/mysql DSN from the database settings.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres builds a libpq keyword/value DSN from the database settings.
// Extras is appended as is, e.g. "sslmode=disable TimeZone=UTC".
func Postgres(db config.DB) string {
	parts := []string{
		"host=" + db.Host,
		fmt.Sprintf("port=%d", db.Port),
		"user=" + db.User,
		"password=" + db.Password,
		"dbname=" + db.Name,
	}

	if db.Extras != "" {
		parts = append(parts, db.Extras)
	}

	return strings.Join(parts, " ")
}

// PostgresURL builds a postgres:// connection url, as used by the session storage.
func PostgresURL(db config.DB) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", db.User, db.Password, db.Host, db.Port, db.Name)

	if db.Extras != "" {
		out += "?" + strings.ReplaceAll(db.Extras, " ", "&")
	}

	return out
}
