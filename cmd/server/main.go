// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnanyaNagabhushan/taskflow/internal/api"
	"github.com/AnanyaNagabhushan/taskflow/internal/config"
	"github.com/AnanyaNagabhushan/taskflow/internal/database"
	"github.com/AnanyaNagabhushan/taskflow/internal/middleware"
	"github.com/AnanyaNagabhushan/taskflow/internal/repository"
	"github.com/AnanyaNagabhushan/taskflow/internal/service"
	"github.com/AnanyaNagabhushan/taskflow/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to database
	log.Println("Connecting to PostgreSQL...")
	db, err := database.Connect(database.Config{
		DSN:   cfg.Database.DSN(),
		Debug: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	// Run auto migration
	if cfg.Server.AutoMigrate {
		log.Println("🔄 Running auto migration...")
		if err := database.Migrate(db.Gorm); err != nil {
			log.Fatalf("Failed to run auto migration: %v", err)
		}
		log.Println("✅ Auto migration completed")
	}

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.Gorm)
	taskRepo := repository.NewTaskRepository(db.Gorm)
	itemRepo := repository.NewItemRepository(db.Gorm)
	tokenRepo := repository.NewTokenRepository(db.Gorm)
	statsRepo := repository.NewStatsRepository(db.SQLX)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenRepo, tokenManager)
	taskService := service.NewTaskService(taskRepo, statsRepo)
	itemService := service.NewItemService(itemRepo)

	// Initialize middleware and router
	authenticator := middleware.NewAuthenticator(tokenManager, authService)
	router := api.NewRouter(
		api.NewAuthHandler(authService),
		api.NewTaskHandler(taskService),
		api.NewItemHandler(itemService),
		authenticator,
		cfg.Server.CORSOrigins,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Taskflow HTTP server listening on port %s", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("📴 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("✅ Server shutdown complete")
}
