package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/openhire/jobboard/internal/handler"
	"github.com/openhire/jobboard/internal/infrastructure/identity"
	"github.com/openhire/jobboard/internal/infrastructure/logger"
	"github.com/openhire/jobboard/internal/infrastructure/redis"
	"github.com/openhire/jobboard/internal/infrastructure/storage"
	"github.com/openhire/jobboard/internal/observability/metrics"
	"github.com/openhire/jobboard/internal/observability/tracing"
	"github.com/openhire/jobboard/internal/repository"
	"github.com/openhire/jobboard/internal/security/audit"
	"github.com/openhire/jobboard/internal/security/auth"
	"github.com/openhire/jobboard/internal/security/middleware"
	"github.com/openhire/jobboard/internal/security/ratelimit"
	"github.com/openhire/jobboard/internal/security/webhook"
	"github.com/openhire/jobboard/internal/service"
	"github.com/openhire/jobboard/internal/worker"
	"github.com/openhire/jobboard/pkg/config"
	"github.com/openhire/jobboard/pkg/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.WebhookSecret == "" {
		return errors.New("IDENTITY_WEBHOOK_SECRET is required")
	}

	log := logger.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, "jobboard", cfg.Environment)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pool, err := database.NewConnectionPool(ctx, &database.Config{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	db := pool.GetDB()

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("redis connected")

	companyRepo := repository.NewPostgresCompanyRepository(db, log)
	jobRepo := repository.NewPostgresJobRepository(db, log)
	appRepo := repository.NewPostgresApplicationRepository(db, log)
	userRepo := repository.NewPostgresUserRepository(db, log)
	listings := repository.NewRedisListingCache(redisClient, time.Duration(cfg.JobCacheTTL)*time.Second, log)

	identityClient := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentitySecretKey, log)
	blobStore := storage.NewClient(cfg.StorageUploadURL, cfg.StorageAPIKey, log)

	tokens := auth.NewTokenManager(cfg.JWTSecret, "jobboard", time.Duration(cfg.TokenTTLHours)*time.Hour)
	verifier, err := webhook.NewVerifier(cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("init webhook verifier: %w", err)
	}
	auditLog := audit.NewLogger(log)

	companyService := service.NewCompanyService(companyRepo, jobRepo, appRepo, tokens, blobStore, listings, auditLog, log)
	jobService := service.NewJobService(jobRepo, listings, log)
	appService := service.NewApplicationService(userRepo, jobRepo, appRepo, identityClient, blobStore, log)
	webhookService := service.NewWebhookService(userRepo, auditLog, log)

	loginLimiter := ratelimit.NewLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	routes := handler.Routes{
		Company: handler.NewCompanyHandler(companyService, log),
		Job:     handler.NewJobHandler(jobService, log),
		User:    handler.NewUserHandler(appService, log),
		Webhook: handler.NewWebhookHandler(verifier, webhookService, log),
		Health:  handler.NewHealthHandler(handler.PingerFunc(pool.Health), handler.PingerFunc(redisClient.Ping), log),

		CompanyAuth: middleware.CompanyAuth(tokens, companyRepo, log),
		SeekerAuth:  middleware.SeekerAuth(identityClient, log),
		LoginLimit:  middleware.RateLimitByIP(loginLimiter, cfg.LoginRateLimit, time.Minute, log),
	}

	root := handler.Chain(routes.NewMux(),
		middleware.RequestID,
		middleware.CORS(cfg.CORSAllowedOrigins),
		metrics.HTTPMetricsMiddleware,
		middleware.ValidateContentType(log),
	)
	root = otelhttp.NewHandler(root, "jobboard")

	syncWorker := worker.NewProfileSyncWorker(
		userRepo,
		identityClient,
		log,
		time.Duration(cfg.ProfileSyncIntervalMins)*time.Minute,
		cfg.ProfileSyncBatchSize,
	)
	go syncWorker.Start(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			slog.Int("port", cfg.ServerPort),
			slog.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
