package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/repository"
)

// NewSink builds the sink selected by cfg.Driver.
func NewSink(ctx context.Context, cfg Config) (domain.Sink, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		return NewMemorySink(), nil
	case "excel", "xlsx":
		path := cfg.ExcelPath
		if path == "" {
			path = "company.xlsx"
		}
		return NewExcelSink(path), nil
	case "elastic", "elasticsearch":
		sink, err := NewElasticSink(cfg.ElasticURL, cfg.ElasticIndexPrefix)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case "datastore":
		sink, err := NewDatastoreSink(ctx, cfg.DatastoreProjectID, cfg.DatastoreNamespace)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx", "mysql":
		db, dialect, err := OpenSQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		var path string
		if dialect == repository.DialectSQLite && cfg.DSN == "" {
			path = cfg.SQLitePath
			if path == "" {
				path = "company.db"
			}
		}
		return NewSQLSink(db, dialect, cfg.BatchSize, path), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
