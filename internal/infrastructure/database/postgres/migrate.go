package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db Querier, logger *slog.Logger) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		logger.ErrorContext(ctx, "Failed to apply schema", "error", err)
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.InfoContext(ctx, "Database schema is up to date")
	return nil
}
