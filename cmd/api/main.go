package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bliq/internal/advice"
	"bliq/internal/config"
	"bliq/internal/database"
	"bliq/internal/handlers"
	"bliq/internal/logger"
	"bliq/internal/middleware"
	"bliq/internal/router"
	"bliq/internal/services"
	"bliq/internal/store"
	"bliq/internal/validator"

	"github.com/prometheus/client_golang/prometheus"
)

// @title           Bliq API
// @version         1.0
// @description     Bliq is a monthly personal finance ledger with carry-over balances, pending transactions and spending advice.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.LogLevel != "" {
		if err := logger.SetLevel(appConfig.LogLevel); err != nil {
			log.Warnf("Ignoring LOG_LEVEL: %v", err)
		}
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("Failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()
	if err := middleware.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db, appConfig.PasswordResetTTL)
	auditService := services.NewAuditService(db)
	ledgerService := services.NewLedgerService(store.NewGormStore(db), prometheus.DefaultRegisterer)
	adviceService := services.NewAdviceService(ledgerService, newAdvisor(appConfig), appConfig.AdviceTimeout)

	// Initialize handlers
	authConfig := handlers.AuthConfig{
		AccessTTL:        appConfig.JWTExpirationDur,
		RememberTTL:      appConfig.RememberMeDuration,
		ExposeResetToken: !appConfig.IsProduction(),
	}
	engine := router.New(router.Handlers{
		Auth:     handlers.NewAuthHandler(userService, auditService, authConfig),
		Ledger:   handlers.NewLedgerHandler(ledgerService, auditService),
		Category: handlers.NewCategoryHandler(ledgerService, auditService),
		Advice:   handlers.NewAdviceHandler(adviceService),
		Activity: handlers.NewActivityHandler(auditService),
	}, router.Options{
		CORSAllowOrigins: appConfig.CORSAllowOrigins,
		MetricsAPIKey:    appConfig.MetricsAPIKey,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Infof("Shutdown signal received: %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	log.Infof("Starting Bliq backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// newAdvisor uses Gemini when an API key is configured and the built-in
// summary otherwise.
func newAdvisor(cfg *config.Config) advice.Advisor {
	if cfg.GeminiAPIKey == "" {
		logger.Get().Info("GEMINI_API_KEY not set, using static advisor")
		return advice.NewStaticAdvisor()
	}
	return advice.NewGeminiAdvisor(cfg.GeminiAPIKey,
		advice.WithBaseURL(cfg.GeminiBaseURL),
		advice.WithModel(cfg.GeminiModel),
	)
}
