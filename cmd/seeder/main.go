package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/locvowork/companygen/internal/bootstrap"
	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/generator"
	"github.com/locvowork/companygen/internal/logger"
	"github.com/locvowork/companygen/internal/service"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, verify, clear")
	preset := flag.String("preset", "", "Data preset: small, medium, large, xlarge (default from SEED_PRESET)")
	employees := flag.Int("employees", -1, "Number of employees (overrides preset)")
	projects := flag.Int("projects", -1, "Number of projects (overrides preset)")
	seed := flag.Uint64("seed", 0, "Random seed; 0 picks one")
	driver := flag.String("driver", "", "Sink: sqlite, postgres, pgx, mysql, excel, elastic, datastore, memory (default from DB_DRIVER)")
	fanOut := flag.String("fan-out", "", "Assignment fan-out policy: clamp, strict (default from SEED_FAN_OUT)")
	dryRun := flag.Bool("dry-run", false, "Generate into memory and print counts only")
	envFile := flag.String("env", ".env", "Path to the .env file")
	yes := flag.Bool("yes", false, "Do not ask for confirmation before clearing")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("🚀 Company Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize app
	fmt.Println("📡 Initializing application...")
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx, bootstrap.Overrides{
		EnvFiles: []string{*envFile},
		Driver:   *driver,
		FanOut:   *fanOut,
		DryRun:   *dryRun,
	}); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		color.Red("❌ %v", err)
		os.Exit(exitCode(err))
	}
	defer app.Close()

	var err error
	switch *action {
	case "seed":
		opts := app.SeedOptions()
		if *preset != "" {
			opts.Preset = *preset
		}
		if *employees >= 0 {
			opts.Employees = *employees
		}
		if *projects >= 0 {
			opts.Projects = *projects
		}
		if *seed != 0 {
			opts.Seed = *seed
		}
		err = performSeed(ctx, app, opts)

	case "verify":
		err = performVerify(ctx, app)

	case "clear":
		err = performClear(ctx, app.Seeder, *yes)

	default:
		color.Red("❌ Unknown action: %s", *action)
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err != nil {
		app.Close()
		os.Exit(exitCode(err))
	}
	color.Green("\n✅ Done!")
}

func performSeed(ctx context.Context, app *bootstrap.App, opts service.SeedOptions) error {
	fmt.Printf("📊 Seeding into %s\n", color.CyanString(app.Driver))

	summary, err := app.Seeder.Seed(ctx, opts)
	if err != nil {
		color.Red("❌ Seeding failed: %v", err)
		return err
	}
	if err := app.Seeder.Publish(ctx, &summary); err != nil {
		color.Yellow("⚠️  Data written, but publishing failed: %v", err)
	}

	fmt.Printf("🎲 Seed %s, run %s, took %s\n",
		color.GreenString("%d", summary.Seed), summary.RunID, summary.Duration)
	printCounts(summary.Counts)
	for _, key := range summary.Artifacts {
		fmt.Printf("📦 Uploaded %s\n", color.CyanString(key))
	}
	return nil
}

func printCounts(counts map[string]int64) {
	for _, name := range domain.Tables {
		fmt.Printf("  • %-18s %s\n", name, color.GreenString("%d", counts[name]))
	}
}

func performVerify(ctx context.Context, app *bootstrap.App) error {
	fmt.Printf("🔍 Verifying %s\n", color.CyanString(app.Driver))

	counts, err := app.Seeder.Verify(ctx)
	if err != nil {
		color.Red("❌ Verification failed: %v", err)
		return err
	}
	printCounts(counts)
	return nil
}

func performClear(ctx context.Context, seeder *service.SeedService, yes bool) error {
	if !yes {
		color.Yellow("⚠️  This will delete all seeded data!")
		fmt.Print("Continue? (yes/no): ")

		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(response) != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	if err := seeder.ClearData(ctx); err != nil {
		color.Red("❌ Clear failed: %v", err)
		return err
	}
	return nil
}

// exitCode maps error kinds to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, generator.ErrConfiguration):
		return 2
	case errors.Is(err, generator.ErrSinkFailure):
		return 3
	case errors.Is(err, generator.ErrReferentialViolation):
		return 4
	default:
		return 1
	}
}
