package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/repository/builder"
)

// DefaultBatchSize is the number of rows per INSERT statement.
const DefaultBatchSize = 500

// CompanyRepository writes the company tables through database/sql.
type CompanyRepository struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
}

// NewCompanyRepository creates a new instance of CompanyRepository.
// A batchSize below 1 selects DefaultBatchSize.
func NewCompanyRepository(db *sql.DB, dialect Dialect, batchSize int) *CompanyRepository {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &CompanyRepository{db: db, dialect: dialect, batchSize: batchSize}
}

// DropTables removes all company tables, children first. Missing tables are fine.
func (r *CompanyRepository) DropTables(ctx context.Context) error {
	for _, stmt := range dropStatements() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
	}
	return nil
}

// CreateTables creates the five company tables with their keys.
func (r *CompanyRepository) CreateTables(ctx context.Context) error {
	for _, stmt := range createStatements(r.dialect) {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

// BatchCreateDepartments inserts departments in one transaction.
func (r *CompanyRepository) BatchCreateDepartments(ctx context.Context, depts []domain.Department) error {
	return r.batchInsert(ctx, domain.TableDepartments, []string{"dept_id", "dept_name"}, len(depts), false,
		func(i int) []interface{} {
			return []interface{}{depts[i].ID, depts[i].Name}
		})
}

// BatchCreateEmployees inserts employees in one transaction.
func (r *CompanyRepository) BatchCreateEmployees(ctx context.Context, emps []domain.Employee) error {
	return r.batchInsert(ctx, domain.TableEmployees, []string{"emp_id", "name", "dept_id", "hire_date"}, len(emps), false,
		func(i int) []interface{} {
			e := emps[i]
			return []interface{}{e.ID, e.Name, e.DepartmentID, r.dialect.date(e.HireDate)}
		})
}

// BatchCreateSalaries inserts salary records in one transaction.
func (r *CompanyRepository) BatchCreateSalaries(ctx context.Context, salaries []domain.SalaryRecord) error {
	return r.batchInsert(ctx, domain.TableSalaries, []string{"salary_id", "emp_id", "salary", "from_date", "to_date"}, len(salaries), false,
		func(i int) []interface{} {
			s := salaries[i]
			return []interface{}{s.ID, s.EmployeeID, s.Amount, r.dialect.date(s.FromDate), r.dialect.nullableDate(s.ToDate)}
		})
}

// BatchCreateProjects inserts projects in one transaction.
func (r *CompanyRepository) BatchCreateProjects(ctx context.Context, projects []domain.Project) error {
	return r.batchInsert(ctx, domain.TableProjects, []string{"project_id", "project_name", "budget"}, len(projects), false,
		func(i int) []interface{} {
			return []interface{}{projects[i].ID, projects[i].Name, projects[i].Budget}
		})
}

// BatchCreateAssignments inserts assignments in one transaction, skipping
// pairs that already exist.
func (r *CompanyRepository) BatchCreateAssignments(ctx context.Context, assignments []domain.Assignment) error {
	return r.batchInsert(ctx, domain.TableAssignments, []string{"emp_id", "project_id", "role"}, len(assignments), true,
		func(i int) []interface{} {
			a := assignments[i]
			return []interface{}{a.EmployeeID, a.ProjectID, a.Role}
		})
}

// Count returns the number of rows in table.
func (r *CompanyRepository) Count(ctx context.Context, table string) (int64, error) {
	query, _ := builder.NewSQLBuilder().Select("COUNT(*)").From(table).Build()

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// Counts returns the row count of every company table.
func (r *CompanyRepository) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(domain.Tables))
	for _, table := range domain.Tables {
		n, err := r.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

func (r *CompanyRepository) batchInsert(ctx context.Context, table string, cols []string, n int, ignoreDuplicates bool, row func(int) []interface{}) error {
	if n == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	size := min(r.batchSize, r.dialect.maxParams()/len(cols))
	for start := 0; start < n; start += size {
		b := builder.NewSQLBuilder().Placeholders(r.dialect.placeholders()).Insert(table, cols...)
		if ignoreDuplicates {
			r.dialect.ignoreDuplicates(b)
		}
		for i := start; i < min(start+size, n); i++ {
			b.Values(row(i)...)
		}

		query, args, err := b.BuildSafe()
		if err != nil {
			return fmt.Errorf("failed to build insert into %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
