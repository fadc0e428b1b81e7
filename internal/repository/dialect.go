package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/locvowork/companygen/internal/repository/builder"
)

// Dialect names the SQL flavour a repository writes.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
)

// ParseDialect accepts the dialect names and their common aliases.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", s)
	}
}

func (d Dialect) placeholders() builder.PlaceholderFormat {
	if d == DialectPostgres {
		return builder.Dollar
	}
	return builder.Question
}

// ignoreDuplicates makes an insert skip rows whose key already exists.
func (d Dialect) ignoreDuplicates(b *builder.SQLBuilder) *builder.SQLBuilder {
	if d == DialectMySQL {
		return b.Modifier("IGNORE")
	}
	return b.Suffix("ON CONFLICT DO NOTHING")
}

// maxParams is the bind parameter limit of one statement.
func (d Dialect) maxParams() int {
	if d == DialectSQLite {
		return 32766
	}
	return 65535
}

func (d Dialect) textType() string {
	if d == DialectMySQL {
		return "VARCHAR(255)"
	}
	return "TEXT"
}

// date converts a calendar date to the value bound for a DATE column.
// SQLite has no date type, so dates are stored as YYYY-MM-DD text.
func (d Dialect) date(t time.Time) interface{} {
	if d == DialectSQLite {
		return t.Format(time.DateOnly)
	}
	return t
}

func (d Dialect) nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return d.date(*t)
}
