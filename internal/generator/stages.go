package generator

import (
	"fmt"

	"github.com/locvowork/companygen/internal/domain"
)

// Batch is the output of one stage: its records plus the dense ids the
// stage assigned, which later stages draw references from.
type Batch[T any] struct {
	Records []T
	IDs     []int
}

// Departments emits one department per catalog name, ids 1..len in order.
func (g *Generator) Departments(names []string) (Batch[domain.Department], error) {
	if len(names) == 0 {
		return Batch[domain.Department]{}, fmt.Errorf("%w: department catalog is empty", ErrConfiguration)
	}
	b := newBatch[domain.Department](len(names))
	nextID := 1
	for _, name := range names {
		b.add(domain.Department{ID: nextID, Name: name}, nextID)
		nextID++
	}
	return b, nil
}

// Employees emits n employees, each in a department drawn uniformly from
// deptIDs and hired within the configured window ending today.
func (g *Generator) Employees(n int, deptIDs []int) (Batch[domain.Employee], error) {
	if n < 1 {
		return Batch[domain.Employee]{}, fmt.Errorf("%w: employee count must be at least 1, got %d", ErrConfiguration, n)
	}
	if len(deptIDs) == 0 {
		return Batch[domain.Employee]{}, fmt.Errorf("%w: no departments to assign employees to", ErrConfiguration)
	}

	start, end := g.window(g.cfg.HireWindowYears)
	b := newBatch[domain.Employee](n)
	for nextID := 1; nextID <= n; nextID++ {
		b.add(domain.Employee{
			ID:           nextID,
			Name:         g.fake.PersonName(),
			DepartmentID: deptIDs[g.rng.IntN(len(deptIDs))],
			HireDate:     g.fake.DateBetween(start, end),
		}, nextID)
	}
	return b, nil
}

// Salaries emits exactly one active salary record per employee.
func (g *Generator) Salaries(empIDs []int) (Batch[domain.SalaryRecord], error) {
	if len(empIDs) == 0 {
		return Batch[domain.SalaryRecord]{}, fmt.Errorf("%w: no employees to pay", ErrConfiguration)
	}

	start, end := g.window(g.cfg.SalaryWindowYears)
	b := newBatch[domain.SalaryRecord](len(empIDs))
	nextID := 1
	for _, empID := range empIDs {
		b.add(domain.SalaryRecord{
			ID:         nextID,
			EmployeeID: empID,
			Amount:     g.between(g.cfg.SalaryMin, g.cfg.SalaryMax),
			FromDate:   g.fake.DateBetween(start, end),
		}, nextID)
		nextID++
	}
	return b, nil
}

// Projects emits m projects with business-style names and budgets.
func (g *Generator) Projects(m int) (Batch[domain.Project], error) {
	if m < 1 {
		return Batch[domain.Project]{}, fmt.Errorf("%w: project count must be at least 1, got %d", ErrConfiguration, m)
	}
	b := newBatch[domain.Project](m)
	for nextID := 1; nextID <= m; nextID++ {
		b.add(domain.Project{
			ID:     nextID,
			Name:   g.fake.BusinessPhrase(),
			Budget: g.between(g.cfg.BudgetMin, g.cfg.BudgetMax),
		}, nextID)
	}
	return b, nil
}

// Assignments gives every employee between MinAssignments and
// MaxAssignments distinct projects, each with a random role. A repeated
// (employee, project) pair keeps its first occurrence only.
func (g *Generator) Assignments(empIDs, projectIDs []int, roles []string) (Batch[domain.Assignment], error) {
	switch {
	case len(projectIDs) == 0:
		return Batch[domain.Assignment]{}, fmt.Errorf("%w: no projects to assign", ErrConfiguration)
	case len(roles) == 0:
		return Batch[domain.Assignment]{}, fmt.Errorf("%w: role catalog is empty", ErrConfiguration)
	case g.cfg.FanOut == FanOutStrict && g.cfg.MaxAssignments > len(projectIDs):
		return Batch[domain.Assignment]{}, fmt.Errorf("%w: up to %d assignments per employee need at least %d projects, got %d",
			ErrConfiguration, g.cfg.MaxAssignments, g.cfg.MaxAssignments, len(projectIDs))
	}

	lo, hi := g.cfg.MinAssignments, g.cfg.MaxAssignments
	sampler := newSampler(projectIDs)
	seen := make(domain.AssignmentSet, len(empIDs)*hi)
	var b Batch[domain.Assignment]
	for _, empID := range empIDs {
		k := min(g.between(lo, hi), len(projectIDs))
		for _, projectID := range sampler.take(g.rng, k) {
			a := domain.Assignment{
				EmployeeID: empID,
				ProjectID:  projectID,
				Role:       roles[g.rng.IntN(len(roles))],
			}
			if seen.Add(a) {
				b.Records = append(b.Records, a)
			}
		}
	}
	return b, nil
}

func newBatch[T any](n int) Batch[T] {
	return Batch[T]{Records: make([]T, 0, n), IDs: make([]int, 0, n)}
}

func (b *Batch[T]) add(rec T, id int) {
	b.Records = append(b.Records, rec)
	b.IDs = append(b.IDs, id)
}
