package builder

import (
	"fmt"
	"strings"
)

// PlaceholderFormat selects how bind parameters are written.
type PlaceholderFormat int

const (
	// Dollar writes numbered parameters: $1, $2, ... (PostgreSQL, SQLite).
	Dollar PlaceholderFormat = iota
	// Question writes positional parameters: ? (MySQL, SQLite).
	Question
)

// SQLBuilder helps construct SQL queries dynamically.
type SQLBuilder struct {
	table    string
	columns  []string
	rows     [][]interface{}
	orderBy  []string
	modifier string
	suffix   string
	format   PlaceholderFormat
	isInsert bool
}

// NewSQLBuilder creates a new instance of SQLBuilder using Dollar placeholders.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Placeholders sets the bind parameter format.
func (b *SQLBuilder) Placeholders(f PlaceholderFormat) *SQLBuilder {
	b.format = f
	return b
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Values appends one row of values for insertion. Call it once per row.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.rows = append(b.rows, vals)
	return b
}

// Modifier is written between INSERT and INTO, e.g. "IGNORE" or "OR IGNORE".
func (b *SQLBuilder) Modifier(m string) *SQLBuilder {
	b.modifier = m
	return b
}

// Suffix is appended to the statement, e.g. "ON CONFLICT DO NOTHING".
func (b *SQLBuilder) Suffix(s string) *SQLBuilder {
	b.suffix = s
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// BuildSafe constructs the final SQL string and arguments with safety validation.
// It rejects inserts without rows, rows whose width differs from the column
// list and statements whose placeholder count does not match the arguments.
func (b *SQLBuilder) BuildSafe() (string, []interface{}, error) {
	if b.isInsert {
		if len(b.rows) == 0 {
			return "", nil, fmt.Errorf("insert into %s has no rows", b.table)
		}
		for i, row := range b.rows {
			if len(row) != len(b.columns) {
				return "", nil, fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(b.columns))
			}
		}
	}

	sql, args := b.Build()

	placeholderCount := 0
	if b.format == Question {
		placeholderCount = strings.Count(sql, "?")
	} else {
		for i := 1; strings.Contains(sql, fmt.Sprintf("$%d", i)); i++ {
			placeholderCount++
		}
	}
	if placeholderCount != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", placeholderCount, len(args))
	}

	return sql, args, nil
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	argIndex := 1

	if b.isInsert {
		sb.WriteString("INSERT ")
		if b.modifier != "" {
			sb.WriteString(b.modifier)
			sb.WriteString(" ")
		}
		sb.WriteString("INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES ")
		tuples := make([]string, len(b.rows))
		for r, row := range b.rows {
			placeholders := make([]string, len(row))
			for i := range row {
				placeholders[i] = b.placeholder(argIndex)
				argIndex++
			}
			tuples[r] = "(" + strings.Join(placeholders, ", ") + ")"
			args = append(args, row...)
		}
		sb.WriteString(strings.Join(tuples, ", "))
		if b.suffix != "" {
			sb.WriteString(" ")
			sb.WriteString(b.suffix)
		}
		return sb.String(), args
	}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	return sb.String(), args
}

func (b *SQLBuilder) placeholder(n int) string {
	if b.format == Question {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}
