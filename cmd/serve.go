package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-scheduler/config"
	_ "social-scheduler/docs"
	"social-scheduler/internal/handler"
	"social-scheduler/internal/middleware"
	"social-scheduler/internal/notifier"
	"social-scheduler/internal/repository"
	"social-scheduler/internal/security"
	"social-scheduler/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запуск HTTP сервера",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := setupLogger(cfg)

	db, err := config.SetupDatabase(&cfg.DatabaseConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("ошибка при закрытии БД", slog.Any("err", err))
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("ошибка при закрытии Redis", slog.Any("err", err))
		}
	}()

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		return err
	}
	cookies := security.NewCookieManager(cfg.Cookie, cfg.SecureCookies(), cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	mailer, err := notifier.NewMailer(ctx, cfg)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cfg.TTL.UserCache)

	authService := service.NewAuthenticationService(db.DB, userRepo, cacheRepo, jwtService, mailer, cfg)
	userService := service.NewUserService(db.DB, userRepo, cacheRepo)
	reaper := service.NewTokenReaper(db.DB, userRepo, cfg.TTL.ReaperInterval)
	go reaper.Run(ctx)

	authHandler := handler.NewAuthenticationHandler(authService, cookies)
	userHandler := handler.NewUserHandler(userService)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	srv, router := config.SetupServer(cfg.ServerAddr)
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		middleware.Tracing,
		middleware.Logging(logger),
		metrics.Middleware,
		chimiddleware.Recoverer,
	)

	authenticate := security.JWTMiddleware(jwtService, authService, cfg.Cookie.AccessName)
	handler.SetupRoutes(router, authHandler, userHandler, authenticate, cfg.CORS.AllowedOrigins)
	router.Handle("/metrics", metrics.Handler())

	return runServer(ctx, srv, logger)
}

func runServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("сервер запущен", slog.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("получен сигнал остановки работы сервера")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке сервера", slog.Any("err", err))
		return err
	}
	logger.Info("сервер успешно остановлен")
	return nil
}
