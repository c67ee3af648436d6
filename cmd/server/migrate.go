package main

import (
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/infra/logger"
	infraPostgres "github.com/sifan077/LinkDesk/internal/infra/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := infraPostgres.NewGorm(cfg.Postgres, log)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := infraPostgres.AutoMigrate(cmd.Context(), db, model.All()...); err != nil {
				return err
			}
			log.Info("schema migrated")
			return nil
		},
	}
}
