package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/companygen/internal/domain"
)

var (
	_ domain.Sink    = (*ExcelSink)(nil)
	_ domain.Counter = (*ExcelSink)(nil)
)

// Header row per sheet. Column names match the SQL schema.
var excelHeaders = map[string][]interface{}{
	domain.TableDepartments: {"dept_id", "dept_name"},
	domain.TableEmployees:   {"emp_id", "name", "dept_id", "hire_date"},
	domain.TableSalaries:    {"salary_id", "emp_id", "salary", "from_date", "to_date"},
	domain.TableProjects:    {"project_id", "project_name", "budget"},
	domain.TableAssignments: {"emp_id", "project_id", "role"},
}

// ExcelSink writes one worksheet per table and saves the workbook on Close.
type ExcelSink struct {
	path string
	file *excelize.File
	next map[string]int
	seen domain.AssignmentSet
}

// NewExcelSink creates a sink that saves to path.
func NewExcelSink(path string) *ExcelSink {
	return &ExcelSink{path: path}
}

// Path returns the workbook location.
func (x *ExcelSink) Path() string { return x.path }

// Reset discards the workbook in memory and removes the file on disk.
func (x *ExcelSink) Reset(context.Context) error {
	if err := x.release(); err != nil {
		return err
	}
	if err := os.Remove(x.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", x.path, err)
	}
	return nil
}

// CreateSchema adds one sheet per table with a header row.
func (x *ExcelSink) CreateSchema(context.Context) error {
	if err := x.release(); err != nil {
		return err
	}
	x.file = excelize.NewFile()
	x.next = make(map[string]int, len(domain.Tables))
	x.seen = domain.AssignmentSet{}

	for i, table := range domain.Tables {
		if i == 0 {
			if err := x.file.SetSheetName(x.file.GetSheetName(0), table); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := x.file.NewSheet(table); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", table, err)
		}
		header := excelHeaders[table]
		if err := x.file.SetSheetRow(table, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", table, err)
		}
		if err := x.file.SetPanes(table, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("failed to freeze header of %s: %w", table, err)
		}
		x.next[table] = 2
	}
	return nil
}

func (x *ExcelSink) appendRow(table string, row []interface{}) error {
	if x.file == nil {
		return errNoSchema
	}
	cell, err := excelize.CoordinatesToCellName(1, x.next[table])
	if err != nil {
		return err
	}
	if err := x.file.SetSheetRow(table, cell, &row); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", table, x.next[table], err)
	}
	x.next[table]++
	return nil
}

func excelDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func (x *ExcelSink) InsertDepartments(_ context.Context, depts []domain.Department) error {
	for _, d := range depts {
		if err := x.appendRow(domain.TableDepartments, []interface{}{d.ID, d.Name}); err != nil {
			return err
		}
	}
	return nil
}

func (x *ExcelSink) InsertEmployees(_ context.Context, emps []domain.Employee) error {
	for _, e := range emps {
		if err := x.appendRow(domain.TableEmployees, []interface{}{e.ID, e.Name, e.DepartmentID, excelDate(e.HireDate)}); err != nil {
			return err
		}
	}
	return nil
}

func (x *ExcelSink) InsertSalaries(_ context.Context, salaries []domain.SalaryRecord) error {
	for _, s := range salaries {
		var to interface{}
		if s.ToDate != nil {
			to = excelDate(*s.ToDate)
		}
		if err := x.appendRow(domain.TableSalaries, []interface{}{s.ID, s.EmployeeID, s.Amount, excelDate(s.FromDate), to}); err != nil {
			return err
		}
	}
	return nil
}

func (x *ExcelSink) InsertProjects(_ context.Context, projects []domain.Project) error {
	for _, p := range projects {
		if err := x.appendRow(domain.TableProjects, []interface{}{p.ID, p.Name, p.Budget}); err != nil {
			return err
		}
	}
	return nil
}

func (x *ExcelSink) InsertAssignments(_ context.Context, assignments []domain.Assignment) error {
	if x.file == nil {
		return errNoSchema
	}
	for _, a := range assignments {
		if !x.seen.Add(a) {
			continue
		}
		if err := x.appendRow(domain.TableAssignments, []interface{}{a.EmployeeID, a.ProjectID, a.Role}); err != nil {
			return err
		}
	}
	return nil
}

// Counts returns the data rows written per sheet, excluding headers.
func (x *ExcelSink) Counts(context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(domain.Tables))
	for _, table := range domain.Tables {
		if n := x.next[table]; n > 1 {
			counts[table] = int64(n - 2)
		} else {
			counts[table] = 0
		}
	}
	return counts, nil
}

// Close saves the workbook if a schema was created.
func (x *ExcelSink) Close() error {
	if x.file == nil {
		return nil
	}
	var errs []error
	if err := x.file.SaveAs(x.path); err != nil {
		errs = append(errs, fmt.Errorf("failed to save %s: %w", x.path, err))
	}
	if err := x.release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// release closes the in-memory workbook, if any.
func (x *ExcelSink) release() error {
	if x.file == nil {
		return nil
	}
	err := x.file.Close()
	x.file = nil
	if err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	return nil
}
