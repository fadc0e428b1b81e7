package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// sink config
	DB_DRIVER            string
	DB_DSN               string
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	BATCH_SIZE           int
	SQLITE_PATH          string
	EXCEL_PATH           string
	ELASTIC_URL          string
	ELASTIC_INDEX_PREFIX string
	DATASTORE_PROJECT_ID string
	DATASTORE_NAMESPACE  string

	// generation config
	SEED_PRESET              string
	SEED_EMPLOYEES           int
	SEED_PROJECTS            int
	SEED_RANDOM_SEED         uint64
	SEED_SALARY_MIN          int
	SEED_SALARY_MAX          int
	SEED_BUDGET_MIN          int
	SEED_BUDGET_MAX          int
	SEED_HIRE_WINDOW_YEARS   int
	SEED_SALARY_WINDOW_YEARS int
	SEED_MIN_ASSIGNMENTS     int
	SEED_MAX_ASSIGNMENTS     int
	SEED_FAN_OUT             string
	CATALOG_FILE             string

	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
	LOG_FORMAT    string

	// metrics config
	METRICS_PUSHGATEWAY_URL string
	METRICS_JOB             string

	// artifact config
	ARTIFACT_S3_BUCKET            string
	ARTIFACT_S3_REGION            string
	ARTIFACT_S3_ENDPOINT          string
	ARTIFACT_S3_ACCESS_KEY_ID     string
	ARTIFACT_S3_SECRET_ACCESS_KEY string
	ARTIFACT_S3_PATH_STYLE        bool
	ARTIFACT_S3_PREFIX            string
}

// LoadEnvConfig reads the given .env files (default ".env") into the process
// environment and builds DefaultEnvConfig. Missing files are ignored.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	DefaultEnvConfig = fromEnv()
	return nil
}

func fromEnv() *envConfig {
	return &envConfig{
		DB_DRIVER:            getEnvString("DB_DRIVER", "sqlite"),
		DB_DSN:               getEnvString("DB_DSN", ""),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 0),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		BATCH_SIZE:           getEnvInt("BATCH_SIZE", 500),
		SQLITE_PATH:          getEnvString("SQLITE_PATH", "company.db"),
		EXCEL_PATH:           getEnvString("EXCEL_PATH", "company.xlsx"),
		ELASTIC_URL:          getEnvString("ELASTIC_URL", "http://localhost:9200"),
		ELASTIC_INDEX_PREFIX: getEnvString("ELASTIC_INDEX_PREFIX", "companygen_"),
		DATASTORE_PROJECT_ID: getEnvString("DATASTORE_PROJECT_ID", ""),
		DATASTORE_NAMESPACE:  getEnvString("DATASTORE_NAMESPACE", ""),

		SEED_PRESET:              getEnvString("SEED_PRESET", "medium"),
		SEED_EMPLOYEES:           getEnvInt("SEED_EMPLOYEES", -1),
		SEED_PROJECTS:            getEnvInt("SEED_PROJECTS", -1),
		SEED_RANDOM_SEED:         getEnvUint64("SEED_RANDOM_SEED", 0),
		SEED_SALARY_MIN:          getEnvInt("SEED_SALARY_MIN", 3000),
		SEED_SALARY_MAX:          getEnvInt("SEED_SALARY_MAX", 8000),
		SEED_BUDGET_MIN:          getEnvInt("SEED_BUDGET_MIN", 10000),
		SEED_BUDGET_MAX:          getEnvInt("SEED_BUDGET_MAX", 100000),
		SEED_HIRE_WINDOW_YEARS:   getEnvInt("SEED_HIRE_WINDOW_YEARS", 10),
		SEED_SALARY_WINDOW_YEARS: getEnvInt("SEED_SALARY_WINDOW_YEARS", 5),
		SEED_MIN_ASSIGNMENTS:     getEnvInt("SEED_MIN_ASSIGNMENTS", 1),
		SEED_MAX_ASSIGNMENTS:     getEnvInt("SEED_MAX_ASSIGNMENTS", 3),
		SEED_FAN_OUT:             getEnvString("SEED_FAN_OUT", "clamp"),
		CATALOG_FILE:             getEnvString("CATALOG_FILE", ""),

		LOG_FILE_PATH: getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:     getEnvString("LOG_LEVEL", "info"),
		LOG_FORMAT:    getEnvString("LOG_FORMAT", "json"),

		METRICS_PUSHGATEWAY_URL: getEnvString("METRICS_PUSHGATEWAY_URL", ""),
		METRICS_JOB:             getEnvString("METRICS_JOB", "companygen"),

		ARTIFACT_S3_BUCKET:            getEnvString("ARTIFACT_S3_BUCKET", ""),
		ARTIFACT_S3_REGION:            getEnvString("ARTIFACT_S3_REGION", "us-east-1"),
		ARTIFACT_S3_ENDPOINT:          getEnvString("ARTIFACT_S3_ENDPOINT", ""),
		ARTIFACT_S3_ACCESS_KEY_ID:     getEnvString("ARTIFACT_S3_ACCESS_KEY_ID", ""),
		ARTIFACT_S3_SECRET_ACCESS_KEY: getEnvString("ARTIFACT_S3_SECRET_ACCESS_KEY", ""),
		ARTIFACT_S3_PATH_STYLE:        getEnvBool("ARTIFACT_S3_PATH_STYLE", false),
		ARTIFACT_S3_PREFIX:            getEnvString("ARTIFACT_S3_PREFIX", "companygen"),
	}
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvUint64(key string, fallback uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseUint(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
