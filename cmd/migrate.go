package main

import (
	"context"
	"log/slog"

	"social-scheduler/config"
	"social-scheduler/internal/repository"
	"social-scheduler/internal/service"

	"github.com/spf13/cobra"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применение миграций и создание суперадмина",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), cfg)
		},
	}
}

func migrate(ctx context.Context, cfg *config.AppConfig) error {
	logger := setupLogger(cfg)

	db, err := config.SetupDatabase(&cfg.DatabaseConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db.DB); err != nil {
		return err
	}

	if cfg.Admin.Email == "" {
		logger.Info("admin.email не задан, суперадмин не создается")
		return nil
	}

	// кэш не нужен: новый пользователь в нем отсутствует
	userService := service.NewUserService(db.DB, repository.NewUserRepository(db), nil)
	admin, created, err := userService.SeedSuperadmin(ctx, cfg.Admin)
	if err != nil {
		return err
	}
	if created {
		logger.Info("суперадмин создан", slog.String("email", admin.Email))
	} else {
		logger.Info("суперадмин уже существует", slog.String("email", admin.Email))
	}
	return nil
}
