package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mvalle/auth-api/internal/adapters/email"
	"github.com/mvalle/auth-api/internal/adapters/handler/http"
	"github.com/mvalle/auth-api/internal/adapters/repository/postgres"
	"github.com/mvalle/auth-api/internal/config"
	"github.com/mvalle/auth-api/internal/core/services"
)

func main() {
	// A missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.New()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	blacklistRepo := postgres.NewBlacklistRepository(db)

	hasher := services.NewPasswordHasher()
	tokens := services.NewTokenService(cfg.JWTSecret)
	mailer := email.NewSender(cfg, logger)
	authService := services.NewAuthService(
		userRepo, blacklistRepo, tokens, hasher, mailer,
		cfg.AccessTokenTTL, cfg.ResetTokenTTL, logger,
	)
	userService := services.NewUserService(userRepo, hasher, logger)

	// Blacklist rows are inert once the token they block has expired;
	// purge them hourly to bound table growth.
	purger := cron.New()
	_, err = purger.AddFunc("@hourly", func() {
		n, err := blacklistRepo.DeleteExpired(context.Background())
		if err != nil {
			logger.Errorf("Failed to purge blacklist: %v", err)
			return
		}
		if n > 0 {
			logger.Infof("Purged %d expired blacklist tokens", n)
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule blacklist purge: %v", err)
	}
	purger.Start()
	defer purger.Stop()

	handler := http.NewHandler(authService, userService)
	server := &stdhttp.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}
}
