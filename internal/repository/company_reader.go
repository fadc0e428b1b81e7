package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/repository/builder"
)

// dateValue scans a DATE column whether the driver returns time.Time or text.
type dateValue struct {
	t     time.Time
	valid bool
}

func (d *dateValue) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		d.valid = false
		return nil
	case time.Time:
		d.t, d.valid = v, true
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into a date", src)
	}
}

func (d *dateValue) parse(s string) error {
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.t, d.valid = t, true
	return nil
}

func (d dateValue) ptr() *time.Time {
	if !d.valid {
		return nil
	}
	t := d.t
	return &t
}

// ListDepartments returns all departments ordered by id.
func (r *CompanyRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	err := r.list(ctx, domain.TableDepartments, []string{"dept_id", "dept_name"}, "dept_id ASC", func(rows *sql.Rows) error {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	return out, err
}

// ListEmployees returns all employees ordered by id.
func (r *CompanyRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	err := r.list(ctx, domain.TableEmployees, []string{"emp_id", "name", "dept_id", "hire_date"}, "emp_id ASC", func(rows *sql.Rows) error {
		var e domain.Employee
		var hired dateValue
		if err := rows.Scan(&e.ID, &e.Name, &e.DepartmentID, &hired); err != nil {
			return err
		}
		e.HireDate = hired.t
		out = append(out, e)
		return nil
	})
	return out, err
}

// ListSalaries returns all salary records ordered by id.
func (r *CompanyRepository) ListSalaries(ctx context.Context) ([]domain.SalaryRecord, error) {
	var out []domain.SalaryRecord
	err := r.list(ctx, domain.TableSalaries, []string{"salary_id", "emp_id", "salary", "from_date", "to_date"}, "salary_id ASC", func(rows *sql.Rows) error {
		var s domain.SalaryRecord
		var from, to dateValue
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.Amount, &from, &to); err != nil {
			return err
		}
		s.FromDate, s.ToDate = from.t, to.ptr()
		out = append(out, s)
		return nil
	})
	return out, err
}

// ListProjects returns all projects ordered by id.
func (r *CompanyRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := r.list(ctx, domain.TableProjects, []string{"project_id", "project_name", "budget"}, "project_id ASC", func(rows *sql.Rows) error {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Budget); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// ListAssignments returns all assignments ordered by employee, then project.
func (r *CompanyRepository) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.list(ctx, domain.TableAssignments, []string{"emp_id", "project_id", "role"}, "emp_id ASC, project_id ASC", func(rows *sql.Rows) error {
		var a domain.Assignment
		if err := rows.Scan(&a.EmployeeID, &a.ProjectID, &a.Role); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

// LoadDataset reads every company table back.
func (r *CompanyRepository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	var err error
	if ds.Departments, err = r.ListDepartments(ctx); err != nil {
		return ds, err
	}
	if ds.Employees, err = r.ListEmployees(ctx); err != nil {
		return ds, err
	}
	if ds.Salaries, err = r.ListSalaries(ctx); err != nil {
		return ds, err
	}
	if ds.Projects, err = r.ListProjects(ctx); err != nil {
		return ds, err
	}
	if ds.Assignments, err = r.ListAssignments(ctx); err != nil {
		return ds, err
	}
	return ds, nil
}

func (r *CompanyRepository) list(ctx context.Context, table string, cols []string, order string, scan func(*sql.Rows) error) error {
	query, args := builder.NewSQLBuilder().Select(cols...).From(table).OrderBy(order).Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to list %s: %w", table, err)
	}
	return nil
}
