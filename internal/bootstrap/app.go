package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/locvowork/companygen/internal/artifact"
	"github.com/locvowork/companygen/internal/catalog"
	"github.com/locvowork/companygen/internal/config"
	"github.com/locvowork/companygen/internal/database"
	"github.com/locvowork/companygen/internal/generator"
	"github.com/locvowork/companygen/internal/logger"
	"github.com/locvowork/companygen/internal/metrics"
	"github.com/locvowork/companygen/internal/service"
)

// Overrides carries command-line values that take precedence over the environment.
type Overrides struct {
	EnvFiles []string
	Driver   string
	FanOut   string
	DryRun   bool
}

type App struct {
	Seeder  *service.SeedService
	Metrics *metrics.Recorder
	Driver  string
}

func NewApp() *App {
	return &App{}
}

func (a *App) Initialize(ctx context.Context, ov Overrides) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(ov.EnvFiles...); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	env := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(logger.Options{
		FilePath: env.LOG_FILE_PATH,
		Level:    env.LOG_LEVEL,
		Console:  strings.EqualFold(env.LOG_FORMAT, "console"),
	})
	logger.DebugLog(ctx, "Environment variables loaded successfully")

	cat, err := catalog.Load(env.CATALOG_FILE)
	if err != nil {
		return err
	}

	fanOut := env.SEED_FAN_OUT
	if ov.FanOut != "" {
		fanOut = ov.FanOut
	}
	base, err := generatorConfig(fanOut)
	if err != nil {
		return err
	}

	a.Driver = env.DB_DRIVER
	if ov.Driver != "" {
		a.Driver = ov.Driver
	}
	if ov.DryRun {
		a.Driver = "memory"
	}

	// Initialize sink
	sink, err := database.NewSink(ctx, databaseConfig(a.Driver))
	if err != nil {
		return fmt.Errorf("failed to initialize %s sink: %w", a.Driver, err)
	}

	a.Metrics = metrics.NewRecorder()
	opts := []service.Option{service.WithRecorder(a.Metrics, env.METRICS_PUSHGATEWAY_URL, env.METRICS_JOB)}

	if env.ARTIFACT_S3_BUCKET != "" && !ov.DryRun {
		up, err := artifact.New(ctx, artifact.Config{
			Bucket:          env.ARTIFACT_S3_BUCKET,
			Region:          env.ARTIFACT_S3_REGION,
			Endpoint:        env.ARTIFACT_S3_ENDPOINT,
			AccessKeyID:     env.ARTIFACT_S3_ACCESS_KEY_ID,
			SecretAccessKey: env.ARTIFACT_S3_SECRET_ACCESS_KEY,
			PathStyle:       env.ARTIFACT_S3_PATH_STYLE,
			Prefix:          env.ARTIFACT_S3_PREFIX,
		})
		if err != nil {
			sink.Close()
			return fmt.Errorf("failed to initialize artifact upload: %w", err)
		}
		opts = append(opts, service.WithUploader(up))
	}

	a.Seeder = service.NewSeedService(sink, cat, base, opts...)
	logger.InfoLog(ctx, "using %s sink", a.Driver)
	return nil
}

// SeedOptions returns the run options configured in the environment.
func (a *App) SeedOptions() service.SeedOptions {
	env := config.DefaultEnvConfig
	return service.SeedOptions{
		Preset:    env.SEED_PRESET,
		Employees: env.SEED_EMPLOYEES,
		Projects:  env.SEED_PROJECTS,
		Seed:      env.SEED_RANDOM_SEED,
	}
}

func (a *App) Close() error {
	if a.Seeder == nil {
		return nil
	}
	return a.Seeder.Close()
}

func generatorConfig(fanOut string) (generator.Config, error) {
	env := config.DefaultEnvConfig
	policy, err := generator.ParseFanOutPolicy(fanOut)
	if err != nil {
		return generator.Config{}, err
	}

	cfg := generator.DefaultConfig()
	cfg.SalaryMin = env.SEED_SALARY_MIN
	cfg.SalaryMax = env.SEED_SALARY_MAX
	cfg.BudgetMin = env.SEED_BUDGET_MIN
	cfg.BudgetMax = env.SEED_BUDGET_MAX
	cfg.HireWindowYears = env.SEED_HIRE_WINDOW_YEARS
	cfg.SalaryWindowYears = env.SEED_SALARY_WINDOW_YEARS
	cfg.MinAssignments = env.SEED_MIN_ASSIGNMENTS
	cfg.MaxAssignments = env.SEED_MAX_ASSIGNMENTS
	cfg.FanOut = policy
	return cfg, nil
}

func databaseConfig(driver string) database.Config {
	env := config.DefaultEnvConfig
	return database.Config{
		Driver:             driver,
		DSN:                env.DB_DSN,
		Host:               env.DB_HOST,
		Port:               env.DB_PORT,
		User:               env.DB_USER,
		Password:           env.DB_PASSWORD,
		DBName:             env.DB_NAME,
		SSLMode:            env.DB_SSL_MODE,
		MaxOpenConns:       env.DB_MAX_OPEN_CONNS,
		MaxIdleConns:       env.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime:    env.DB_CONN_MAX_LIFETIME,
		SQLitePath:         env.SQLITE_PATH,
		ExcelPath:          env.EXCEL_PATH,
		ElasticURL:         env.ELASTIC_URL,
		ElasticIndexPrefix: env.ELASTIC_INDEX_PREFIX,
		DatastoreProjectID: env.DATASTORE_PROJECT_ID,
		DatastoreNamespace: env.DATASTORE_NAMESPACE,
		BatchSize:          env.BATCH_SIZE,
	}
}
