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

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/quickchat/quickchat-go/internal/config"
	"github.com/quickchat/quickchat-go/internal/crypto"
	"github.com/quickchat/quickchat-go/internal/handler"
	"github.com/quickchat/quickchat-go/internal/metrics"
	"github.com/quickchat/quickchat-go/internal/middleware"
	"github.com/quickchat/quickchat-go/internal/repository"
	"github.com/quickchat/quickchat-go/internal/router"
	"github.com/quickchat/quickchat-go/internal/service"
	"github.com/quickchat/quickchat-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		logger.Error("running migrations", "error", err)
		os.Exit(1)
	}

	uploader, err := storage.NewUploader(ctx, cfg.S3)
	if err != nil {
		logger.Error("configuring image storage", "error", err)
		os.Exit(1)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer limiter.Stop()

	m := metrics.New()
	accountService := service.NewAccountService(
		repository.NewAccountRepository(db),
		crypto.NewHasher(cfg.HashWorkers),
		uploader,
		service.TokenConfig{Secret: cfg.JWTSecret, Expiry: cfg.JWTExpiry},
	)

	r := router.SetupRouter(router.Config{
		AccountHandler: handler.NewAccountHandler(accountService, m, logger),
		Verifier:       middleware.Verifier(accountService, logger),
		Metrics:        m.Handler(),
		Logger:         logger,
		RateLimiter:    limiter,
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))
}
