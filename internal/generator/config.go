package generator

import (
	"fmt"
	"strings"

	"github.com/locvowork/companygen/internal/catalog"
)

// FanOutPolicy decides what happens when an employee would be assigned more
// projects than exist.
type FanOutPolicy string

const (
	// FanOutClamp lowers the assignment count to the number of projects.
	FanOutClamp FanOutPolicy = "clamp"
	// FanOutStrict rejects the configuration up front.
	FanOutStrict FanOutPolicy = "strict"
)

// ParseFanOutPolicy accepts "clamp" or "strict" in any case. Empty means clamp.
func ParseFanOutPolicy(s string) (FanOutPolicy, error) {
	switch FanOutPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FanOutClamp:
		return FanOutClamp, nil
	case FanOutStrict:
		return FanOutStrict, nil
	default:
		return "", fmt.Errorf("%w: unknown fan-out policy %q", ErrConfiguration, s)
	}
}

// Config controls the size and value ranges of a generated dataset.
type Config struct {
	Departments []string
	Roles       []string

	Employees int
	Projects  int

	SalaryMin int
	SalaryMax int
	BudgetMin int
	BudgetMax int

	// HireWindowYears and SalaryWindowYears size the date windows ending today.
	HireWindowYears   int
	SalaryWindowYears int

	// MinAssignments and MaxAssignments bound the projects per employee.
	MinAssignments int
	MaxAssignments int
	FanOut         FanOutPolicy
}

// DefaultConfig returns the reference configuration: 10 departments,
// 200 employees, 10 projects and 1-3 assignments per employee.
func DefaultConfig() Config {
	c := catalog.Default()
	return Config{
		Departments:       c.Departments,
		Roles:             c.Roles,
		Employees:         200,
		Projects:          10,
		SalaryMin:         3000,
		SalaryMax:         8000,
		BudgetMin:         10000,
		BudgetMax:         100000,
		HireWindowYears:   10,
		SalaryWindowYears: 5,
		MinAssignments:    1,
		MaxAssignments:    3,
		FanOut:            FanOutClamp,
	}
}

// Validate checks the whole configuration so a run fails before any record
// reaches the sink.
func (c Config) Validate() error {
	switch {
	case len(c.Departments) == 0:
		return fmt.Errorf("%w: department catalog is empty", ErrConfiguration)
	case c.Employees < 1:
		return fmt.Errorf("%w: employee count must be at least 1, got %d", ErrConfiguration, c.Employees)
	case c.Projects < 1:
		return fmt.Errorf("%w: project count must be at least 1, got %d", ErrConfiguration, c.Projects)
	case len(c.Roles) == 0:
		return fmt.Errorf("%w: role catalog is empty", ErrConfiguration)
	case c.SalaryMin > c.SalaryMax:
		return fmt.Errorf("%w: salary range [%d, %d] is empty", ErrConfiguration, c.SalaryMin, c.SalaryMax)
	case c.BudgetMin > c.BudgetMax:
		return fmt.Errorf("%w: budget range [%d, %d] is empty", ErrConfiguration, c.BudgetMin, c.BudgetMax)
	case c.HireWindowYears < 0 || c.SalaryWindowYears < 0:
		return fmt.Errorf("%w: date windows must not be negative", ErrConfiguration)
	case c.MinAssignments < 1:
		return fmt.Errorf("%w: minimum assignments must be at least 1, got %d", ErrConfiguration, c.MinAssignments)
	case c.MinAssignments > c.MaxAssignments:
		return fmt.Errorf("%w: assignment range [%d, %d] is empty", ErrConfiguration, c.MinAssignments, c.MaxAssignments)
	}
	if _, err := ParseFanOutPolicy(string(c.FanOut)); err != nil {
		return err
	}
	if c.FanOut == FanOutStrict && c.MaxAssignments > c.Projects {
		return fmt.Errorf("%w: up to %d assignments per employee need at least %d projects, got %d",
			ErrConfiguration, c.MaxAssignments, c.MaxAssignments, c.Projects)
	}
	return nil
}

// AssignmentBounds returns the per-employee assignment range after the
// fan-out policy is applied to a pool of projects.
func (c Config) AssignmentBounds(projects int) (lo, hi int) {
	lo, hi = c.MinAssignments, c.MaxAssignments
	if c.FanOut != FanOutStrict {
		lo, hi = min(lo, projects), min(hi, projects)
	}
	return lo, hi
}
