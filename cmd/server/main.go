package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/milan1710/mern-ayurveda/internal/auth"
	"github.com/milan1710/mern-ayurveda/internal/cache"
	"github.com/milan1710/mern-ayurveda/internal/config"
	"github.com/milan1710/mern-ayurveda/internal/database"
	"github.com/milan1710/mern-ayurveda/internal/db"
	"github.com/milan1710/mern-ayurveda/internal/handlers"
	"github.com/milan1710/mern-ayurveda/internal/health"
	h "github.com/milan1710/mern-ayurveda/internal/http"
	"github.com/milan1710/mern-ayurveda/internal/middleware"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
	"github.com/milan1710/mern-ayurveda/internal/services"
	"github.com/milan1710/mern-ayurveda/internal/storage"
)

// seedAdmin creates the initial admin account from ADMIN_EMAIL/ADMIN_PASSWORD
// on an empty installation. Does nothing when an admin already exists.
func seedAdmin(ctx context.Context, userRepo *repositories.UserRepository) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	admins, err := userRepo.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Printf("[Seed] Failed to check for admin accounts: %v", err)
		return
	}
	if len(admins) > 0 {
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("[Seed] Failed to hash admin password: %v", err)
		return
	}

	admin := &models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return
		}
		log.Printf("[Seed] Failed to create admin account: %v", err)
		return
	}
	log.Printf("[Seed] Created initial admin account %s", email)
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (stats and catalog serve from DB)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	walletRepo := repositories.NewWalletRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	collectionRepo := repositories.NewCollectionRepository(pool)

	seedAdmin(ctx, userRepo)

	// Initialize services
	visibilityService := services.NewVisibilityService(userRepo)
	userService := services.NewUserService(userRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo)
	walletService := services.NewWalletService(walletRepo, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	productService := services.NewProductService(productRepo, cfg.Server.PublicURL)
	orderService := services.NewOrderService(orderRepo, userRepo, productRepo, visibilityService)
	statsService := services.NewStatsService(orderRepo, userRepo, visibilityService)
	invoiceService := services.NewInvoiceService(cfg.Store.Name)

	// Initialize file storage (optional - uploads disabled without credentials)
	var fileStore *storage.Store
	if cfg.Storage.Bucket != "" && cfg.Storage.AccessKey != "" {
		store, err := storage.NewStore(cfg)
		if err != nil {
			log.Printf("[Storage] Disabled: %v", err)
		} else {
			fileStore = store
			log.Println("[Storage] Object storage connected")
		}
	} else {
		log.Println("[Storage] Not configured, image uploads disabled")
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, totpService, jwtManager)
	userHandler := handlers.NewUserHandler(userService)
	orderHandler := handlers.NewOrderHandler(orderService, invoiceService)
	walletHandler := handlers.NewWalletHandler(walletService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	collectionHandler := handlers.NewCategoryHandler(collectionRepo)
	statsHandler := handlers.NewStatsHandler(statsService)
	publicHandler := handlers.NewPublicHandler(productService, orderService, categoryHandler)
	superAdminHandler := handlers.NewSuperAdminHandler(userService, walletService, jwtManager, cfg)
	uploadHandler := handlers.NewUploadHandler(fileStore)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Create router
	router := h.NewRouter(
		authHandler,
		userHandler,
		orderHandler,
		walletHandler,
		productHandler,
		categoryHandler,
		collectionHandler,
		statsHandler,
		publicHandler,
		superAdminHandler,
		uploadHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
