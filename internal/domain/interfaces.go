package domain

import (
	"context"
	"time"
)

// Sink is the storage collaborator that receives generated records.
// Reset and CreateSchema are called once by the driver before any insert.
type Sink interface {
	// Reset clears any prior dataset. It must be idempotent.
	Reset(ctx context.Context) error
	// CreateSchema establishes the five tables and their foreign keys.
	CreateSchema(ctx context.Context) error

	InsertDepartments(ctx context.Context, depts []Department) error
	InsertEmployees(ctx context.Context, emps []Employee) error
	InsertSalaries(ctx context.Context, salaries []SalaryRecord) error
	InsertProjects(ctx context.Context, projects []Project) error
	// InsertAssignments ignores rows whose (employee, project) key already exists.
	InsertAssignments(ctx context.Context, assignments []Assignment) error

	Close() error
}

// Counter is implemented by sinks that can report the row count per table.
type Counter interface {
	Counts(ctx context.Context) (map[string]int64, error)
}

// Loader is implemented by sinks that can read a written dataset back.
type Loader interface {
	Load(ctx context.Context) (Dataset, error)
}

// FakeDataProvider supplies realistic-looking values. Apart from its internal
// randomness it has no side effects.
type FakeDataProvider interface {
	PersonName() string
	BusinessPhrase() string
	DateBetween(start, end time.Time) time.Time
}
