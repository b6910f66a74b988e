package cli

import (
	"context"
	"fmt"
	"log/slog"

	repo "mock-interview/internal/adapter/repository"
	"mock-interview/internal/config"
	"mock-interview/internal/infrastructure/migration"
	infra "mock-interview/pkg/infrastructure"
	"mock-interview/pkg/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the session schema for the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Log.Level, cfg.Log.Format)
		return migrate(cmd.Context(), cfg.Store)
	},
}

func migrate(ctx context.Context, cfg config.StoreConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch cfg.Kind {
	case config.StorePostgres:
		pool, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		return migration.RunMigrations(ctx, pool)

	case config.StoreSQLite:
		db, err := infra.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if _, err := repo.NewSQLiteStore(ctx, db); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
		slog.Info("sqlite schema ready", "path", cfg.SQLitePath)
		return nil

	default:
		slog.Info("nothing to migrate", "store", cfg.Kind)
		return nil
	}
}
