package main

import (
	"fmt"
	"log/slog"
	"os"

	"social-scheduler/config"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

// @title Social Scheduler
// @version 1.0
// @description REST API авторизации и управления пользователями

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "social-scheduler",
		Short:         "Сервис авторизации планировщика публикаций",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "путь к config.yaml (по умолчанию CONFIG_PATH или ./config.yaml)")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig : флаг --config, затем CONFIG_PATH, затем ./config.yaml.
// Если файла по умолчанию нет, конфигурация читается только из окружения.
func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	return config.LoadConfig(path)
}

// setupLogger : json вне development, текст с debug уровнем в development.
// Логгер ставится по умолчанию, так что стандартный log пишет через него же.
func setupLogger(cfg *config.AppConfig) *slog.Logger {
	var logger *slog.Logger

	if cfg.IsDevelopment() {
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	} else {
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	slog.SetDefault(logger)
	return logger
}
