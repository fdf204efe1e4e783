// Package main is the entry point for the catalogue seeder.
// It loads activities from the embedded catalogue (or a YAML file) and
// inserts them through the same service the API uses.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pkordes/itinerary-planner/backend/internal/config"
	"github.com/pkordes/itinerary-planner/backend/internal/domain"
	"github.com/pkordes/itinerary-planner/backend/internal/repo"
	"github.com/pkordes/itinerary-planner/backend/internal/seed"
	"github.com/pkordes/itinerary-planner/backend/internal/service"
	"github.com/pkordes/itinerary-planner/backend/migrations"
)

var (
	seedReset bool
	seedFile  string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the activity catalogue into the database",
	Long: `Load the activity catalogue into the database.

By default the catalogue compiled into the binary is used. Pass --file to
load a different YAML catalogue with the same layout.

Examples:
  # Append the built-in catalogue
  seed

  # Replace existing activities (those not used by a saved itinerary)
  seed --reset

  # Load a custom catalogue
  seed --file ./winter.yaml --reset
`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete existing activities before seeding")
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML catalogue to load instead of the built-in one")
}

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	activities, err := loadCatalogue()
	if err != nil {
		return err
	}

	if err := migrate(ctx, cfg.DatabaseURL, logger); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	activityRepo := repo.NewActivityRepo(pool)
	seeder := seed.NewSeeder(service.NewActivityService(activityRepo), activityRepo, logger)

	n, err := seeder.Run(ctx, activities, seedReset)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d activities\n", n)
	return nil
}

func loadCatalogue() ([]domain.Activity, error) {
	if seedFile == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return seed.Parse(data)
}

// migrate brings the schema up to date so seeding works against a fresh database.
func migrate(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	applied, err := migrations.Up(ctx, db)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	log.InfoContext(ctx, "migrations applied", "count", applied)
	return nil
}
