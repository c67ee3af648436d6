package main

import (
	"errors"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"github.com/sifan077/LinkDesk/internal/app/service"
	"github.com/sifan077/LinkDesk/internal/infra/logger"
	infraPostgres "github.com/sifan077/LinkDesk/internal/infra/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedAdminCmd() *cobra.Command {
	var email, password, nickname string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account if it does not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			input := service.SeedAdminInput{
				Email:    firstNonEmpty(email, cfg.Admin.Email),
				Password: firstNonEmpty(password, cfg.Admin.Password),
				Nickname: firstNonEmpty(nickname, cfg.Admin.Nickname),
			}
			if input.Password == "" {
				return errors.New("seed-admin: a password is required (--password or ADMIN_PASSWORD)")
			}

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

			admins := service.NewAdminService(repository.NewAdminRepository(db), service.NewBcryptHasher(0))
			admin, created, err := admins.SeedAdmin(cmd.Context(), input)
			if err != nil {
				return err
			}
			if created {
				log.Info("admin created", zap.Uint("id", admin.ID), zap.String("email", admin.Email))
			} else {
				log.Info("admin already exists", zap.Uint("id", admin.ID), zap.String("email", admin.Email))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (defaults to admin.email)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to admin.password)")
	cmd.Flags().StringVar(&nickname, "nickname", "", "admin nickname (defaults to admin.nickname)")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
