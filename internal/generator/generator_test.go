package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/companygen/internal/domain"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recordingSink struct {
	calls  []string
	failOn string
	ds     domain.Dataset
}

func (s *recordingSink) record(name string) error {
	s.calls = append(s.calls, name)
	if name == s.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (s *recordingSink) Reset(context.Context) error        { return s.record("reset") }
func (s *recordingSink) CreateSchema(context.Context) error { return s.record("create") }
func (s *recordingSink) Close() error                       { return nil }

func (s *recordingSink) InsertDepartments(_ context.Context, v []domain.Department) error {
	s.ds.Departments = append(s.ds.Departments, v...)
	return s.record(domain.TableDepartments)
}

func (s *recordingSink) InsertEmployees(_ context.Context, v []domain.Employee) error {
	s.ds.Employees = append(s.ds.Employees, v...)
	return s.record(domain.TableEmployees)
}

func (s *recordingSink) InsertSalaries(_ context.Context, v []domain.SalaryRecord) error {
	s.ds.Salaries = append(s.ds.Salaries, v...)
	return s.record(domain.TableSalaries)
}

func (s *recordingSink) InsertProjects(_ context.Context, v []domain.Project) error {
	s.ds.Projects = append(s.ds.Projects, v...)
	return s.record(domain.TableProjects)
}

func (s *recordingSink) InsertAssignments(_ context.Context, v []domain.Assignment) error {
	s.ds.Assignments = append(s.ds.Assignments, v...)
	return s.record(domain.TableAssignments)
}

type stageCall struct {
	entity  string
	records int
	failed  bool
}

type recordingObserver struct{ calls []stageCall }

func (o *recordingObserver) ObserveStage(_ context.Context, entity string, records int, _ time.Duration, err error) {
	o.calls = append(o.calls, stageCall{entity, records, err != nil})
}

func newTestGenerator(cfg Config, seed uint64, opts ...Option) *Generator {
	return NewSeeded(cfg, seed, append([]Option{WithClock(clock)}, opts...)...)
}

func TestGenerateReferenceConfig(t *testing.T) {
	cfg := DefaultConfig()
	ds, err := newTestGenerator(cfg, 1).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Departments, 10)
	require.Len(t, ds.Employees, 200)
	require.Len(t, ds.Salaries, 200)
	require.Len(t, ds.Projects, 10)

	for i, d := range ds.Departments {
		assert.Equal(t, i+1, d.ID)
		assert.Equal(t, cfg.Departments[i], d.Name)
	}

	hireStart := time.Date(2015, 3, 14, 0, 0, 0, 0, time.UTC)
	salaryStart := time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	for i, e := range ds.Employees {
		assert.Equal(t, i+1, e.ID)
		assert.NotEmpty(t, e.Name)
		assert.GreaterOrEqual(t, e.DepartmentID, 1)
		assert.LessOrEqual(t, e.DepartmentID, 10)
		assert.False(t, e.HireDate.Before(hireStart), "hire date %s", e.HireDate)
		assert.False(t, e.HireDate.After(today), "hire date %s", e.HireDate)
	}

	for i, s := range ds.Salaries {
		assert.Equal(t, i+1, s.ID)
		assert.Equal(t, i+1, s.EmployeeID)
		assert.Nil(t, s.ToDate)
		assert.GreaterOrEqual(t, s.Amount, 3000)
		assert.LessOrEqual(t, s.Amount, 8000)
		assert.False(t, s.FromDate.Before(salaryStart), "from date %s", s.FromDate)
		assert.False(t, s.FromDate.After(today), "from date %s", s.FromDate)
	}

	for i, p := range ds.Projects {
		assert.Equal(t, i+1, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.GreaterOrEqual(t, p.Budget, 10000)
		assert.LessOrEqual(t, p.Budget, 100000)
	}

	perEmployee := map[int]int{}
	seen := domain.AssignmentSet{}
	for _, a := range ds.Assignments {
		assert.True(t, seen.Add(a), "duplicate pair %+v", a)
		assert.Contains(t, cfg.Roles, a.Role)
		assert.GreaterOrEqual(t, a.ProjectID, 1)
		assert.LessOrEqual(t, a.ProjectID, 10)
		perEmployee[a.EmployeeID]++
	}
	require.Len(t, perEmployee, 200)
	for id, n := range perEmployee {
		assert.True(t, n >= 1 && n <= 3, "employee %d has %d assignments", id, n)
	}
}

func TestGenerateUsesEveryAssignmentCount(t *testing.T) {
	ds, err := newTestGenerator(DefaultConfig(), 5).Generate(context.Background())
	require.NoError(t, err)

	perEmployee := map[int]int{}
	for _, a := range ds.Assignments {
		perEmployee[a.EmployeeID]++
	}
	counts := map[int]bool{}
	for _, n := range perEmployee {
		counts[n] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, counts)
}

func TestSingleEmployeeSingleProject(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Employees = 1
	cfg.Projects = 1

	ds, err := newTestGenerator(cfg, 3).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Employees, 1)
	require.Len(t, ds.Salaries, 1)
	require.Len(t, ds.Assignments, 1)
	a := ds.Assignments[0]
	assert.Equal(t, 1, a.EmployeeID)
	assert.Equal(t, 1, a.ProjectID)
	assert.Contains(t, cfg.Roles, a.Role)
}

func TestZeroEmployeesFailsBeforeAnyWrite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Employees = 0
	sink := &recordingSink{}

	_, err := newTestGenerator(cfg, 1).Run(context.Background(), sink)
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Empty(t, sink.calls)
}

func TestFanOutPolicies(t *testing.T) {
	t.Run("clamp limits to project pool", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Projects = 2
		cfg.MinAssignments = 3
		cfg.MaxAssignments = 3

		ds, err := newTestGenerator(cfg, 11).Generate(context.Background())
		require.NoError(t, err)

		perEmployee := map[int]int{}
		for _, a := range ds.Assignments {
			perEmployee[a.EmployeeID]++
		}
		require.Len(t, perEmployee, cfg.Employees)
		for id, n := range perEmployee {
			assert.Equal(t, 2, n, "employee %d", id)
		}
	})

	t.Run("strict rejects small pool", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Projects = 2
		cfg.FanOut = FanOutStrict
		sink := &recordingSink{}

		_, err := newTestGenerator(cfg, 11).Run(context.Background(), sink)
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Empty(t, sink.calls)
	})

	t.Run("strict accepts large enough pool", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Projects = 3
		cfg.FanOut = FanOutStrict

		_, err := newTestGenerator(cfg, 11).Generate(context.Background())
		require.NoError(t, err)
	})
}

func TestSameSeedSameDataset(t *testing.T) {
	a, err := newTestGenerator(DefaultConfig(), 99).Generate(context.Background())
	require.NoError(t, err)
	b, err := newTestGenerator(DefaultConfig(), 99).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := newTestGenerator(DefaultConfig(), 100).Generate(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Employees, c.Employees)
}

func TestRepeatedRunsKeepShape(t *testing.T) {
	cfg := DefaultConfig()
	for seed := uint64(1); seed <= 3; seed++ {
		sink := &recordingSink{}
		ds, err := newTestGenerator(cfg, seed).Run(context.Background(), sink)
		require.NoError(t, err)

		assert.Equal(t, domain.Tables, sink.calls)
		assert.Equal(t, ds, sink.ds)
		assert.Len(t, sink.ds.Departments, 10)
		assert.Len(t, sink.ds.Employees, 200)
		assert.Len(t, sink.ds.Salaries, 200)
		assert.Len(t, sink.ds.Projects, 10)
		lo, hi := cfg.AssignmentBounds(10)
		assert.NoError(t, Validate(sink.ds, lo, hi))
	}
}

func TestRunStopsOnSinkFailure(t *testing.T) {
	sink := &recordingSink{failOn: domain.TableSalaries}
	obs := &recordingObserver{}

	_, err := newTestGenerator(DefaultConfig(), 1, WithObserver(obs)).Run(context.Background(), sink)
	require.ErrorIs(t, err, ErrSinkFailure)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{domain.TableDepartments, domain.TableEmployees, domain.TableSalaries}, sink.calls)

	require.Len(t, obs.calls, 3)
	assert.Equal(t, stageCall{domain.TableDepartments, 10, false}, obs.calls[0])
	assert.Equal(t, stageCall{domain.TableSalaries, 200, true}, obs.calls[2])
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{}

	_, err := newTestGenerator(DefaultConfig(), 1).Run(ctx, sink)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.calls)
}

func TestStagesRejectEmptyInputs(t *testing.T) {
	g := newTestGenerator(DefaultConfig(), 1)

	_, err := g.Departments(nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.Employees(0, []int{1})
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.Employees(5, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.Salaries(nil)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.Projects(0)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.Assignments([]int{1}, nil, []string{"Lead"})
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.Assignments([]int{1}, []int{1}, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestEmployeesOnlyReferenceGivenDepartments(t *testing.T) {
	g := newTestGenerator(DefaultConfig(), 4)
	batch, err := g.Employees(300, []int{4, 7})
	require.NoError(t, err)

	require.Len(t, batch.IDs, 300)
	for i, e := range batch.Records {
		assert.Equal(t, batch.IDs[i], e.ID)
		assert.Contains(t, []int{4, 7}, e.DepartmentID)
	}
}
