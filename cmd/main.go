package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/contacts-service/internal/cache"
	"github.com/fathima-sithara/contacts-service/internal/config"
	"github.com/fathima-sithara/contacts-service/internal/database"
	"github.com/fathima-sithara/contacts-service/internal/handlers"
	"github.com/fathima-sithara/contacts-service/internal/mailer"
	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/server"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/fathima-sithara/contacts-service/internal/storage"
	"github.com/fathima-sithara/contacts-service/internal/tokens"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()
	sugar.Infof("Starting contacts-service in %s environment on port %d", cfg.App.Env, cfg.App.Port)

	ctx := context.Background()

	db, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN, sugar)
	if err != nil {
		sugar.Fatal(err)
	}
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
	if err != nil {
		sugar.Fatal(err)
	}

	mailClient := mailer.NewClient(cfg.Mail.APIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	if !mailClient.IsConfigured() {
		sugar.Warn("mail client not fully configured, confirmation emails will be skipped")
	}
	dispatcher := mailer.NewDispatcher(mailClient, logger)

	imageHost, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket)
	if err != nil {
		sugar.Fatal(err)
	}

	userRepo := repository.NewPostgresUserRepository(db)
	contactRepo := repository.NewPostgresContactRepository(db)
	userCache := cache.NewRedisUserCache(rdb)
	tokenManager := tokens.NewManager(cfg.App.JWT.Secret, cfg.AccessTTL(), cfg.RefreshTTL())

	authSvc := services.NewAuthService(userRepo, tokenManager, userCache, dispatcher, cfg.App.BaseURL, logger)
	contactSvc := services.NewContactService(contactRepo)
	userSvc := services.NewUserService(userRepo, imageHost, authSvc)

	h := handlers.New(authSvc, contactSvc, userSvc, logger)
	limiter := middleware.NewRateLimiter(rdb, "rl:contacts", cfg.RateLimit.Requests, cfg.RateLimitWindow())

	app := server.New(cfg, h, authSvc, limiter, logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Errorf("server shutdown error: %v", err)
	}

	dispatcher.Close()

	if err := db.Close(); err != nil {
		sugar.Errorf("postgres close error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		sugar.Errorf("redis close error: %v", err)
	}

	sugar.Info("Graceful shutdown complete")
}
