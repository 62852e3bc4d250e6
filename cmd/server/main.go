package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loantrack/internal/adapters/http/middleware"
	"loantrack/internal/adapters/http/routes"
	"loantrack/internal/adapters/persistence/repositories"
	"loantrack/internal/config"
	"loantrack/internal/core/services"
	"loantrack/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "loantrack/docs" // Swagger docs
)

// @title loantrack API
// @version 1.0
// @description Loan application tracking with applicant, verifier and admin roles.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New("error", "prod").Fatal("❌ Failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.AppMode)
	defer func() { _ = log.Sync() }()

	// Connect to database (migrates the schema)
	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	// Seed default staff accounts
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.NewSeeder(db, cfg.Seed, log.Named("seed")).Run(seedCtx); err != nil {
		log.Warn("⚠️ Failed to seed default users", zap.Error(err))
	}
	cancel()

	// Background jobs: refresh token cleanup and the daily statistics report
	cronService, err := services.NewCronService(
		cfg.Cron,
		repositories.NewRefreshTokenRepository(db),
		services.NewStatisticsService(repositories.NewLoanRepository(db)),
		log.Named("cron"),
	)
	if err != nil {
		log.Fatal("❌ Invalid cron schedule", zap.Error(err))
	}
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "loantrack API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, log)

	// Graceful shutdown
	go gracefulShutdown(app, log)

	// Start server
	log.Info("🚀 Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("❌ Failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("❌ Error during shutdown", zap.Error(err))
	}
	log.Info("✅ Server stopped gracefully")
}
