package main

import (
	"context"
	"gestionale_veicoli_go/config"
	"gestionale_veicoli_go/db"
	"gestionale_veicoli_go/handlers"
	"gestionale_veicoli_go/middleware"
	"gestionale_veicoli_go/models"
	"gestionale_veicoli_go/services"
	"gestionale_veicoli_go/services/jobs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{}, &models.Session{},
		&models.Vehicle{}, &models.DestinationOffice{},
		&models.Case{}, &models.SeizureCaseDetails{},
		&models.CaseEditLock{}, &models.CaseStatusHistory{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Document archive (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Initial board load; the poller repairs it later if this fails
	if err := services.Board.Reload(db.DB); err != nil {
		log.Printf("Initial case board load failed: %v", err)
	}

	// Background refresh and cleanup
	poller := jobs.NewPoller(db.DB, services.Board, cfg)
	poller.Start()
	defer poller.Stop()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes
	e.POST("/api/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/logout", handlers.LogoutHandler)
		api.GET("/me", handlers.GetCurrentUserHandler)

		// Case board
		api.GET("/cases", handlers.GetCaseBoardHandler)
		api.POST("/cases/refresh", handlers.RefreshCaseBoardHandler)
		api.GET("/cases/categories", handlers.GetCaseCategoriesHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.GET("/cases/:id/history", handlers.GetCaseHistoryHandler)
		api.POST("/cases/:id/select", handlers.SelectCaseHandler)
		api.POST("/cases/:id/check", handlers.ToggleCaseCheckedHandler)

		// Edit locks
		api.GET("/cases/:id/lock", handlers.CheckCaseLockHandler)

		// Destination office registry
		api.GET("/offices", handlers.ListDestinationOfficesHandler)

		// Reports
		api.GET("/reports/cases.xlsx", handlers.ExportCasesExcelHandler)
		api.GET("/reports/cases.pdf", handlers.ExportCasesPDFHandler)

		// Mutating routes, blocked for read-only accounts
		write := api.Group("")
		write.Use(middleware.RequireWriteAccess())
		{
			write.POST("/cases", handlers.CreateCaseHandler)
			write.PUT("/cases/:id", handlers.UpdateCaseHandler)
			write.DELETE("/cases", handlers.DeleteCasesHandler)
			write.POST("/cases/:id/release", handlers.ReleaseCaseHandler)
			write.POST("/cases/:id/release-document", handlers.GenerateReleaseDocumentHandler)

			write.POST("/cases/:id/lock", handlers.AcquireCaseLockHandler)
			write.DELETE("/cases/:id/lock", handlers.ReleaseCaseLockHandler)

			write.POST("/offices", handlers.CreateDestinationOfficeHandler)
			write.PUT("/offices/:id", handlers.UpdateDestinationOfficeHandler)
			write.DELETE("/offices", handlers.DeleteDestinationOfficesHandler)
		}

		// Admin-only routes
		admin := api.Group("/users")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", handlers.GetUsersHandler)
			admin.GET("/:id", handlers.GetUserHandler)
			admin.POST("", handlers.CreateUserHandler)
			admin.PUT("/:id", handlers.UpdateUserHandler)
			admin.DELETE("/:id", handlers.DeleteUserHandler)
		}
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
