package database

import (
	"context"
	"errors"

	"github.com/locvowork/companygen/internal/domain"
)

var (
	_ domain.Sink    = (*MemorySink)(nil)
	_ domain.Counter = (*MemorySink)(nil)
	_ domain.Loader  = (*MemorySink)(nil)
)

var errNoSchema = errors.New("schema not created")

// MemorySink keeps the dataset in memory. It backs dry runs.
type MemorySink struct {
	ready bool
	ds    domain.Dataset
	seen  domain.AssignmentSet
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Reset(context.Context) error {
	s.ready = false
	s.ds = domain.Dataset{}
	s.seen = nil
	return nil
}

func (s *MemorySink) CreateSchema(context.Context) error {
	s.ready = true
	s.seen = domain.AssignmentSet{}
	return nil
}

func (s *MemorySink) InsertDepartments(_ context.Context, depts []domain.Department) error {
	if !s.ready {
		return errNoSchema
	}
	s.ds.Departments = append(s.ds.Departments, depts...)
	return nil
}

func (s *MemorySink) InsertEmployees(_ context.Context, emps []domain.Employee) error {
	if !s.ready {
		return errNoSchema
	}
	s.ds.Employees = append(s.ds.Employees, emps...)
	return nil
}

func (s *MemorySink) InsertSalaries(_ context.Context, salaries []domain.SalaryRecord) error {
	if !s.ready {
		return errNoSchema
	}
	s.ds.Salaries = append(s.ds.Salaries, salaries...)
	return nil
}

func (s *MemorySink) InsertProjects(_ context.Context, projects []domain.Project) error {
	if !s.ready {
		return errNoSchema
	}
	s.ds.Projects = append(s.ds.Projects, projects...)
	return nil
}

func (s *MemorySink) InsertAssignments(_ context.Context, assignments []domain.Assignment) error {
	if !s.ready {
		return errNoSchema
	}
	for _, a := range assignments {
		if s.seen.Add(a) {
			s.ds.Assignments = append(s.ds.Assignments, a)
		}
	}
	return nil
}

// Dataset returns everything written since the last reset.
func (s *MemorySink) Dataset() domain.Dataset {
	return s.ds
}

func (s *MemorySink) Load(context.Context) (domain.Dataset, error) {
	return s.ds, nil
}

func (s *MemorySink) Counts(context.Context) (map[string]int64, error) {
	return map[string]int64{
		domain.TableDepartments: int64(len(s.ds.Departments)),
		domain.TableEmployees:   int64(len(s.ds.Employees)),
		domain.TableSalaries:    int64(len(s.ds.Salaries)),
		domain.TableProjects:    int64(len(s.ds.Projects)),
		domain.TableAssignments: int64(len(s.ds.Assignments)),
	}, nil
}

func (s *MemorySink) Close() error { return nil }
