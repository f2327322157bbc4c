package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/config"
	"github.com/joestump/joe-bookmarks/internal/db"
	"github.com/joestump/joe-bookmarks/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(log) }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			log.Info("migrations complete", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}
