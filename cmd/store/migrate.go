package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/store/internal/httpserver"
	"github.com/Skotchmaster/store/pkg/config"
	pkgdb "github.com/Skotchmaster/store/pkg/db"
	"github.com/Skotchmaster/store/pkg/logging"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustValid(config.Load())
			logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer func() { _ = pkgdb.Close(db) }()

			if err := httpserver.Migrate(db.WithContext(ctx)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrate_success", "driver", cfg.DatabaseDriver)
			return nil
		},
	}
}
