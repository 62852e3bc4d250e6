package routes

import (
	"loantrack/internal/adapters/http/handlers"
	"loantrack/internal/adapters/http/middleware"
	"loantrack/internal/adapters/persistence/repositories"
	"loantrack/internal/config"
	"loantrack/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	loanEventRepo := repositories.NewLoanEventRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg, log.Named("auth"))
	adminService := services.NewAdminService(userRepo, log.Named("admin"))
	notifyService := services.NewNotificationService(cfg.Notify.LineToken, log.Named("notify"))
	loanService := services.NewLoanService(loanRepo, loanEventRepo, notifyService, log.Named("loan"))
	statsService := services.NewStatisticsService(loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, func() error { return config.HealthCheck(db) })
	authHandler := handlers.NewAuthHandler(authService, cfg, log)
	loanHandler := handlers.NewLoanHandler(loanService, log)
	statsHandler := handlers.NewStatisticsHandler(statsService, log)
	adminHandler := handlers.NewAdminHandler(adminService, log)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	requireAuth := middleware.AuthMiddleware(authService)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, requireAuth)

	loanRoutes := apiV1.Group("/loans", requireAuth, middleware.NoCacheHeaders())
	setupLoanRoutes(loanRoutes, loanHandler, statsHandler)

	adminRoutes := apiV1.Group("/admins", requireAuth, middleware.NoCacheHeaders())
	setupAdminRoutes(adminRoutes, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, requireAuth fiber.Handler) {
	// Public routes
	limiter := middleware.AuthRateLimiter()
	router.Post("/register", limiter, handler.Register)
	router.Post("/login", limiter, handler.Login)
	router.Post("/refresh", limiter, handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", requireAuth, handler.Me)
	router.Post("/logout-all", requireAuth, handler.LogoutAll)
}

// setupLoanRoutes configures loan routes; role checks happen in the service
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler, stats *handlers.StatisticsHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)

	// static paths before /:id
	router.Get("/my-loans", handler.MyLoans)
	router.Get("/pending", handler.Pending)
	router.Get("/verified", handler.Verified)
	router.Get("/statistics", stats.Get)

	router.Get("/:id", handler.Get)
	router.Get("/:id/history", handler.History)
	router.Put("/:id/verify", handler.Verify)
	router.Put("/:id/approve", handler.Approve)
	router.Put("/:id/reject", handler.Reject)
}

// setupAdminRoutes configures admin management routes (Admin only)
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Add)
	router.Delete("/:id", handler.Delete)
}
