// Command ingest loads customer_data.xlsx and loan_data.xlsx into the
// database once and exits. File locations come from the batch config
// section and can be overridden with flags.
package main

import (
	"context"
	"credit-approval/internal/batch"
	"credit-approval/internal/config"
	"credit-approval/internal/infrastructure/database/postgres"
	"credit-approval/internal/infrastructure/logging"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yml")
	customerFile := flag.String("customers", "", "customer spreadsheet (overrides batch.customerFile)")
	loanFile := flag.String("loans", "", "loan spreadsheet (overrides batch.loanFile)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyOverrides(&cfg.Batch, *customerFile, *loanFile)

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Batch.IngestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Batch.IngestTimeout)
		defer cancel()
	}

	os.Exit(run(ctx, cfg, logger))
}

func applyOverrides(cfg *config.BatchConfig, customerFile, loanFile string) {
	if customerFile != "" {
		cfg.CustomerFile = customerFile
	}
	if loanFile != "" {
		cfg.LoanFile = loanFile
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) int {
	pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		return 1
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			logger.Error("Failed to apply database schema", "error", err)
			return 1
		}
	}

	job := batch.NewIngestJob(postgres.NewIngestStore(pool, logger), cfg.Batch, logger)
	res, runErr := job.Run(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("Failed to write ingestion result", "error", err)
	}

	if runErr != nil {
		return 1
	}
	return 0
}
