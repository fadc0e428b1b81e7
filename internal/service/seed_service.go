package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/locvowork/companygen/internal/catalog"
	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/generator"
	"github.com/locvowork/companygen/internal/logger"
)

// SeedOptions selects the size and seed of one run.
type SeedOptions struct {
	Preset string
	// Employees and Projects override the preset when not negative.
	Employees int
	Projects  int
	// Seed 0 picks a random seed, which is reported in the summary.
	Seed uint64
}

// Summary describes a finished run.
type Summary struct {
	RunID     string           `json:"run_id"`
	Seed      uint64           `json:"seed"`
	Preset    string           `json:"preset"`
	Employees int              `json:"employees"`
	Projects  int              `json:"projects"`
	Counts    map[string]int64 `json:"counts"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration_ns"`
	Artifacts []string         `json:"artifacts,omitempty"`
}

// Recorder receives stage metrics and can forward them after the run.
type Recorder interface {
	generator.StageObserver
	MarkSuccess(at time.Time)
	Push(ctx context.Context, url, job, runID string) error
}

// Uploader stores run artifacts remotely.
type Uploader interface {
	UploadFile(ctx context.Context, runID, path string) (string, error)
	UploadJSON(ctx context.Context, runID, name string, v any) (string, error)
}

type fileBacked interface {
	Path() string
}

// SeedService drives a generation run against one sink. It owns the sink.
type SeedService struct {
	sink     domain.Sink
	catalog  *catalog.Catalog
	base     generator.Config
	recorder Recorder
	uploader Uploader
	pushURL  string
	pushJob  string
	now      func() time.Time
	newRunID func() string

	closeOnce sync.Once
	closeErr  error
}

// Option configures a SeedService.
type Option func(*SeedService)

// WithRecorder attaches a metrics recorder. When url is set the metrics are
// pushed there on Publish.
func WithRecorder(r Recorder, url, job string) Option {
	return func(s *SeedService) {
		s.recorder = r
		s.pushURL = url
		s.pushJob = job
	}
}

// WithUploader uploads the sink file and the run summary on Publish.
func WithUploader(u Uploader) Option {
	return func(s *SeedService) { s.uploader = u }
}

// WithClock fixes the clock used for date windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SeedService) { s.now = now }
}

// WithRunID replaces the uuid run id generator.
func WithRunID(f func() string) Option {
	return func(s *SeedService) { s.newRunID = f }
}

// NewSeedService creates a service. base supplies value ranges and the
// fan-out policy; cat supplies departments, roles and presets.
func NewSeedService(sink domain.Sink, cat *catalog.Catalog, base generator.Config, opts ...Option) *SeedService {
	s := &SeedService{
		sink:     sink,
		catalog:  cat,
		base:     base,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ResolveConfig merges the catalog, preset and explicit counts into a
// generator configuration.
func (s *SeedService) ResolveConfig(opts SeedOptions) (generator.Config, string, error) {
	cfg := s.base
	cfg.Departments = s.catalog.Departments
	cfg.Roles = s.catalog.Roles

	preset := strings.ToLower(strings.TrimSpace(opts.Preset))
	if preset != "" {
		p, ok := s.catalog.Preset(preset)
		if !ok {
			return cfg, preset, fmt.Errorf("%w: unknown preset %q", generator.ErrConfiguration, opts.Preset)
		}
		cfg.Employees, cfg.Projects = p.Employees, p.Projects
	}
	if opts.Employees >= 0 {
		cfg.Employees = opts.Employees
	}
	if opts.Projects >= 0 {
		cfg.Projects = opts.Projects
	}
	return cfg, preset, nil
}

// ============================================================================
// Actions
// ============================================================================

// Seed generates a dataset and writes it to the sink after resetting it.
// Generation and validation complete before the sink is touched.
func (s *SeedService) Seed(ctx context.Context, opts SeedOptions) (Summary, error) {
	started := s.now()
	cfg, preset, err := s.ResolveConfig(opts)
	if err != nil {
		return Summary{}, err
	}

	seed := opts.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	runID := s.newRunID()
	ctx = logger.WithLogger(ctx, map[string]interface{}{"run_id": runID, "seed": seed})
	logger.InfoLog(ctx, "seeding %d employees, %d projects (preset %q)", cfg.Employees, cfg.Projects, preset)

	genOpts := []generator.Option{generator.WithClock(s.now)}
	if s.recorder != nil {
		genOpts = append(genOpts, generator.WithObserver(s.recorder))
	}
	gen := generator.NewSeeded(cfg, seed, genOpts...)

	ds, err := gen.Generate(ctx)
	if err != nil {
		logger.ErrorLog(ctx, "generation failed: %v", err)
		return Summary{}, err
	}

	if err := s.sink.Reset(ctx); err != nil {
		return Summary{}, fmt.Errorf("%w: reset: %w", generator.ErrSinkFailure, err)
	}
	if err := s.sink.CreateSchema(ctx); err != nil {
		return Summary{}, fmt.Errorf("%w: create schema: %w", generator.ErrSinkFailure, err)
	}
	if err := gen.Emit(ctx, s.sink, ds); err != nil {
		logger.ErrorLog(ctx, "seeding failed: %v", err)
		return Summary{}, err
	}

	counts, err := s.counts(ctx, ds)
	if err != nil {
		return Summary{}, err
	}

	finished := s.now()
	if s.recorder != nil {
		s.recorder.MarkSuccess(finished)
	}
	summary := Summary{
		RunID:     runID,
		Seed:      seed,
		Preset:    preset,
		Employees: cfg.Employees,
		Projects:  cfg.Projects,
		Counts:    counts,
		StartedAt: started,
		Duration:  finished.Sub(started),
	}
	logger.InfoLog(ctx, "seeding finished in %s", summary.Duration)
	return summary, nil
}

// counts asks the sink for row counts and falls back to the dataset sizes.
func (s *SeedService) counts(ctx context.Context, ds domain.Dataset) (map[string]int64, error) {
	if c, ok := s.sink.(domain.Counter); ok {
		counts, err := c.Counts(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: count rows: %w", generator.ErrSinkFailure, err)
		}
		return counts, nil
	}
	return datasetCounts(ds), nil
}

func datasetCounts(ds domain.Dataset) map[string]int64 {
	return map[string]int64{
		domain.TableDepartments: int64(len(ds.Departments)),
		domain.TableEmployees:   int64(len(ds.Employees)),
		domain.TableSalaries:    int64(len(ds.Salaries)),
		domain.TableProjects:    int64(len(ds.Projects)),
		domain.TableAssignments: int64(len(ds.Assignments)),
	}
}

// ClearData removes any previously seeded dataset from the sink.
func (s *SeedService) ClearData(ctx context.Context) error {
	if err := s.sink.Reset(ctx); err != nil {
		return fmt.Errorf("%w: reset: %w", generator.ErrSinkFailure, err)
	}
	logger.InfoLog(ctx, "cleared seeded data")
	return nil
}

// Verify reads the dataset back from the sink and checks its referential
// invariants. The sink must implement domain.Loader.
func (s *SeedService) Verify(ctx context.Context) (map[string]int64, error) {
	loader, ok := s.sink.(domain.Loader)
	if !ok {
		return nil, fmt.Errorf("%w: sink cannot be read back", generator.ErrConfiguration)
	}
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", generator.ErrSinkFailure, err)
	}
	lo, hi := s.base.AssignmentBounds(len(ds.Projects))
	if err := generator.Validate(ds, lo, hi); err != nil {
		logger.ErrorLog(ctx, "verification failed: %v", err)
		return nil, err
	}
	counts := datasetCounts(ds)
	logger.InfoLog(ctx, "verified %d employees and %d assignments", len(ds.Employees), len(ds.Assignments))
	return counts, nil
}

// Publish closes the sink, so file sinks are flushed, then uploads the
// artifacts and pushes metrics. Upload and push failures are joined.
func (s *SeedService) Publish(ctx context.Context, summary *Summary) error {
	if err := s.Close(); err != nil {
		return err
	}
	ctx = logger.WithLogger(ctx, map[string]interface{}{"run_id": summary.RunID})

	var errs []error
	if s.uploader != nil {
		if f, ok := s.sink.(fileBacked); ok && f.Path() != "" {
			key, err := s.uploader.UploadFile(ctx, summary.RunID, f.Path())
			if err != nil {
				errs = append(errs, err)
			} else {
				summary.Artifacts = append(summary.Artifacts, key)
			}
		}
		if key, err := s.uploader.UploadJSON(ctx, summary.RunID, "summary.json", summary); err != nil {
			errs = append(errs, err)
		} else {
			logger.InfoLog(ctx, "uploaded run summary to %s", key)
		}
	}
	if s.recorder != nil && s.pushURL != "" {
		if err := s.recorder.Push(ctx, s.pushURL, s.pushJob, summary.RunID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes the sink once.
func (s *SeedService) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.sink.Close()
	})
	return s.closeErr
}
