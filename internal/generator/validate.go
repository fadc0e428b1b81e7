package generator

import (
	"fmt"

	"github.com/locvowork/companygen/internal/domain"
)

// Validate checks the structural invariants of a dataset: dense ids, no
// dangling references, one active salary per employee, unique assignment
// pairs and between lo and hi assignments per employee.
func Validate(ds domain.Dataset, lo, hi int) error {
	deptIDs := make(map[int]struct{}, len(ds.Departments))
	for i, d := range ds.Departments {
		if d.ID != i+1 {
			return fmt.Errorf("%w: department #%d has id %d", ErrReferentialViolation, i+1, d.ID)
		}
		deptIDs[d.ID] = struct{}{}
	}

	empIDs := make(map[int]struct{}, len(ds.Employees))
	for i, e := range ds.Employees {
		if e.ID != i+1 {
			return fmt.Errorf("%w: employee #%d has id %d", ErrReferentialViolation, i+1, e.ID)
		}
		if _, ok := deptIDs[e.DepartmentID]; !ok {
			return fmt.Errorf("%w: employee %d references department %d", ErrReferentialViolation, e.ID, e.DepartmentID)
		}
		empIDs[e.ID] = struct{}{}
	}

	paid := make(map[int]struct{}, len(ds.Salaries))
	for i, s := range ds.Salaries {
		if s.ID != i+1 {
			return fmt.Errorf("%w: salary #%d has id %d", ErrReferentialViolation, i+1, s.ID)
		}
		if _, ok := empIDs[s.EmployeeID]; !ok {
			return fmt.Errorf("%w: salary %d references employee %d", ErrReferentialViolation, s.ID, s.EmployeeID)
		}
		if _, dup := paid[s.EmployeeID]; dup {
			return fmt.Errorf("%w: employee %d has more than one salary", ErrReferentialViolation, s.EmployeeID)
		}
		if !s.Active() {
			return fmt.Errorf("%w: salary %d is not active", ErrReferentialViolation, s.ID)
		}
		paid[s.EmployeeID] = struct{}{}
	}
	if len(paid) != len(empIDs) {
		return fmt.Errorf("%w: %d employees but %d salaries", ErrReferentialViolation, len(empIDs), len(paid))
	}

	projectIDs := make(map[int]struct{}, len(ds.Projects))
	for i, p := range ds.Projects {
		if p.ID != i+1 {
			return fmt.Errorf("%w: project #%d has id %d", ErrReferentialViolation, i+1, p.ID)
		}
		projectIDs[p.ID] = struct{}{}
	}

	seen := make(domain.AssignmentSet, len(ds.Assignments))
	perEmployee := make(map[int]int, len(empIDs))
	for _, a := range ds.Assignments {
		if _, ok := empIDs[a.EmployeeID]; !ok {
			return fmt.Errorf("%w: assignment references employee %d", ErrReferentialViolation, a.EmployeeID)
		}
		if _, ok := projectIDs[a.ProjectID]; !ok {
			return fmt.Errorf("%w: assignment references project %d", ErrReferentialViolation, a.ProjectID)
		}
		if !seen.Add(a) {
			return fmt.Errorf("%w: duplicate assignment (%d, %d)", ErrReferentialViolation, a.EmployeeID, a.ProjectID)
		}
		perEmployee[a.EmployeeID]++
	}
	for id := range empIDs {
		if n := perEmployee[id]; n < lo || n > hi {
			return fmt.Errorf("%w: employee %d has %d assignments, want %d..%d", ErrReferentialViolation, id, n, lo, hi)
		}
	}
	return nil
}
