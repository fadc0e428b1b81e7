package database

import (
	"context"
	"database/sql"

	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/repository"
)

var (
	_ domain.Sink    = (*SQLSink)(nil)
	_ domain.Counter = (*SQLSink)(nil)
	_ domain.Loader  = (*SQLSink)(nil)
)

// SQLSink writes the dataset to a relational database.
type SQLSink struct {
	db   *sql.DB
	repo *repository.CompanyRepository
	path string
}

// NewSQLSink wraps an open database. path names the backing file for
// file-based databases and is empty otherwise.
func NewSQLSink(db *sql.DB, dialect repository.Dialect, batchSize int, path string) *SQLSink {
	return &SQLSink{
		db:   db,
		repo: repository.NewCompanyRepository(db, dialect, batchSize),
		path: path,
	}
}

// Path returns the database file, if any.
func (s *SQLSink) Path() string { return s.path }

func (s *SQLSink) Reset(ctx context.Context) error {
	return s.repo.DropTables(ctx)
}

func (s *SQLSink) CreateSchema(ctx context.Context) error {
	return s.repo.CreateTables(ctx)
}

func (s *SQLSink) InsertDepartments(ctx context.Context, depts []domain.Department) error {
	return s.repo.BatchCreateDepartments(ctx, depts)
}

func (s *SQLSink) InsertEmployees(ctx context.Context, emps []domain.Employee) error {
	return s.repo.BatchCreateEmployees(ctx, emps)
}

func (s *SQLSink) InsertSalaries(ctx context.Context, salaries []domain.SalaryRecord) error {
	return s.repo.BatchCreateSalaries(ctx, salaries)
}

func (s *SQLSink) InsertProjects(ctx context.Context, projects []domain.Project) error {
	return s.repo.BatchCreateProjects(ctx, projects)
}

func (s *SQLSink) InsertAssignments(ctx context.Context, assignments []domain.Assignment) error {
	return s.repo.BatchCreateAssignments(ctx, assignments)
}

func (s *SQLSink) Counts(ctx context.Context) (map[string]int64, error) {
	return s.repo.Counts(ctx)
}

func (s *SQLSink) Load(ctx context.Context) (domain.Dataset, error) {
	return s.repo.LoadDataset(ctx)
}

func (s *SQLSink) Close() error {
	return s.db.Close()
}
