// Package generator synthesizes a referentially consistent company dataset:
// departments, employees, salaries, projects and employee-project
// assignments, produced in that order.
package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/fakedata"
	"github.com/locvowork/companygen/internal/logger"
)

// StageObserver is notified after every sink write.
type StageObserver interface {
	ObserveStage(ctx context.Context, entity string, records int, elapsed time.Duration, err error)
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces time.Now as the end of every date window.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithObserver registers an observer for sink writes.
func WithObserver(o StageObserver) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// Generator runs the five generation stages with one shared random source.
// It is not safe for concurrent use.
type Generator struct {
	cfg      Config
	rng      *rand.Rand
	fake     domain.FakeDataProvider
	now      func() time.Time
	observer StageObserver
}

// New returns a generator drawing every random choice from rng and every
// name and date from fake.
func New(cfg Config, rng *rand.Rand, fake domain.FakeDataProvider, opts ...Option) *Generator {
	g := &Generator{
		cfg:  cfg,
		rng:  rng,
		fake: fake,
		now:  time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// NewSeeded wires a PCG source shared by the generator and a gofakeit
// provider, so equal seeds give equal datasets for a fixed clock.
func NewSeeded(cfg Config, seed uint64, opts ...Option) *Generator {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return New(cfg, rand.New(src), fakedata.New(src), opts...)
}

// Config returns the configuration the generator was built with.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate runs all five stages in memory and checks the result.
func (g *Generator) Generate(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	if err := g.cfg.Validate(); err != nil {
		return ds, err
	}

	depts, err := g.Departments(g.cfg.Departments)
	if err != nil {
		return ds, err
	}
	emps, err := g.Employees(g.cfg.Employees, depts.IDs)
	if err != nil {
		return ds, err
	}
	salaries, err := g.Salaries(emps.IDs)
	if err != nil {
		return ds, err
	}
	projects, err := g.Projects(g.cfg.Projects)
	if err != nil {
		return ds, err
	}
	if err := ctx.Err(); err != nil {
		return ds, err
	}
	assignments, err := g.Assignments(emps.IDs, projects.IDs, g.cfg.Roles)
	if err != nil {
		return ds, err
	}

	ds = domain.Dataset{
		Departments: depts.Records,
		Employees:   emps.Records,
		Salaries:    salaries.Records,
		Projects:    projects.Records,
		Assignments: assignments.Records,
	}
	lo, hi := g.cfg.AssignmentBounds(len(ds.Projects))
	if err := Validate(ds, lo, hi); err != nil {
		return domain.Dataset{}, err
	}
	logger.DebugLog(ctx, "generated %d departments, %d employees, %d salaries, %d projects, %d assignments",
		len(ds.Departments), len(ds.Employees), len(ds.Salaries), len(ds.Projects), len(ds.Assignments))
	return ds, nil
}

// Run generates a dataset and hands each stage's records to sink in
// dependency order. The sink must already be reset and have its schema.
// Nothing is written if generation fails; a sink error stops the remaining
// stages.
func (g *Generator) Run(ctx context.Context, sink domain.Sink) (domain.Dataset, error) {
	ds, err := g.Generate(ctx)
	if err != nil {
		return ds, err
	}
	if err := g.Emit(ctx, sink, ds); err != nil {
		return ds, err
	}
	return ds, nil
}

// Emit writes an already generated dataset to sink, one stage at a time.
func (g *Generator) Emit(ctx context.Context, sink domain.Sink, ds domain.Dataset) error {
	steps := []struct {
		entity  string
		records int
		insert  func(context.Context) error
	}{
		{domain.TableDepartments, len(ds.Departments), func(ctx context.Context) error { return sink.InsertDepartments(ctx, ds.Departments) }},
		{domain.TableEmployees, len(ds.Employees), func(ctx context.Context) error { return sink.InsertEmployees(ctx, ds.Employees) }},
		{domain.TableSalaries, len(ds.Salaries), func(ctx context.Context) error { return sink.InsertSalaries(ctx, ds.Salaries) }},
		{domain.TableProjects, len(ds.Projects), func(ctx context.Context) error { return sink.InsertProjects(ctx, ds.Projects) }},
		{domain.TableAssignments, len(ds.Assignments), func(ctx context.Context) error { return sink.InsertAssignments(ctx, ds.Assignments) }},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := step.insert(ctx)
		if g.observer != nil {
			g.observer.ObserveStage(ctx, step.entity, step.records, time.Since(start), err)
		}
		if err != nil {
			return fmt.Errorf("%w: insert %s: %w", ErrSinkFailure, step.entity, err)
		}
		logger.InfoLog(ctx, "inserted %d rows into %s", step.records, step.entity)
	}
	return nil
}

// window returns [today - years, today].
func (g *Generator) window(years int) (time.Time, time.Time) {
	end := fakedata.Day(g.now())
	return end.AddDate(-years, 0, 0), end
}

// between draws uniformly from [lo, hi].
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}
