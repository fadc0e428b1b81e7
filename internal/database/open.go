package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/locvowork/companygen/internal/repository"
)

// Config describes where the generated dataset is written.
type Config struct {
	// Driver is one of sqlite, postgres, pgx, mysql, excel, elastic, datastore, memory.
	Driver string
	// DSN overrides the connection string built from the fields below.
	DSN string

	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	SQLitePath string
	ExcelPath  string

	ElasticURL         string
	ElasticIndexPrefix string

	DatastoreProjectID string
	DatastoreNamespace string

	BatchSize int
}

// driverName maps a configured driver to its database/sql name and dialect.
func driverName(driver string) (string, repository.Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		return "postgres", repository.DialectPostgres, nil
	case "pgx":
		return "pgx", repository.DialectPostgres, nil
	case "mysql":
		return "mysql", repository.DialectMySQL, nil
	case "sqlite", "sqlite3":
		return "sqlite", repository.DialectSQLite, nil
	default:
		return "", "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// DSN returns the connection string for the configured SQL driver.
func (c Config) dsn() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch strings.ToLower(c.Driver) {
	case "postgres", "postgresql", "pgx":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.port(5432), c.User, c.Password, c.DBName, c.SSLMode), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.port(3306)))
		mc.DBName = c.DBName
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case "sqlite", "sqlite3":
		path := c.SQLitePath
		if path == "" {
			path = "company.db"
		}
		return "file:" + path + "?_pragma=foreign_keys(1)", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", c.Driver)
	}
}

// port returns the configured port, or def when none is set.
func (c Config) port(def int) int {
	if c.Port > 0 {
		return c.Port
	}
	return def
}

// OpenSQL opens and pings the configured SQL database.
func OpenSQL(ctx context.Context, cfg Config) (*sql.DB, repository.Dialect, error) {
	name, dialect, err := driverName(cfg.Driver)
	if err != nil {
		return nil, "", err
	}
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s connection: %w", name, err)
	}

	if dialect == repository.DialectSQLite {
		// One writer; also keeps every statement on the same connection.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to ping %s: %w", name, err)
	}
	return db, dialect, nil
}
