package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milan1710/mern-ayurveda/internal/handlers"
	"github.com/milan1710/mern-ayurveda/internal/middleware"
	"github.com/milan1710/mern-ayurveda/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	orderHandler *handlers.OrderHandler,
	walletHandler *handlers.WalletHandler,
	productHandler *handlers.ProductHandler,
	categoryHandler *handlers.CategoryHandler,
	collectionHandler *handlers.CategoryHandler,
	statsHandler *handlers.StatsHandler,
	publicHandler *handlers.PublicHandler,
	superAdminHandler *handlers.SuperAdminHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	adminOnly := authMiddleware.RequireRole(models.RoleAdmin)
	adminOrSub := authMiddleware.RequireRole(models.RoleAdmin, models.RoleSubAdmin)
	subAdminOnly := authMiddleware.RequireRole(models.RoleSubAdmin)

	// Public storefront API (NO AUTHENTICATION REQUIRED)
	publicAPI := r.PathPrefix("/api/public").Subrouter()
	publicAPI.HandleFunc("/products", publicHandler.ListProducts).Methods("GET")
	publicAPI.HandleFunc("/products/{id}", publicHandler.GetProduct).Methods("GET")
	publicAPI.HandleFunc("/categories", publicHandler.ListCategories).Methods("GET")
	publicAPI.HandleFunc("/orders", publicHandler.Checkout).Methods("POST")

	// Public API routes - Authentication
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/2fa/verify", authHandler.Verify2FA).Methods("POST")

	// Protected API routes - Account
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	authAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authAPI.HandleFunc("/2fa/setup", authHandler.Setup2FA).Methods("POST")
	authAPI.HandleFunc("/2fa/enable", authHandler.Enable2FA).Methods("POST")
	authAPI.HandleFunc("/2fa/disable", authHandler.Disable2FA).Methods("POST")

	// Protected API routes - Users (staff management + assignee picker)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("/assignables", userHandler.Assignables).Methods("GET")
	usersAPI.HandleFunc("/staff", adminOrSub(http.HandlerFunc(userHandler.ListStaff)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/staff", adminOrSub(http.HandlerFunc(userHandler.CreateStaff)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/staff/{id}", adminOrSub(http.HandlerFunc(userHandler.DeleteStaff)).ServeHTTP).Methods("DELETE")
	usersAPI.HandleFunc("/{id}/toggle-active", adminOnly(http.HandlerFunc(userHandler.ToggleActive)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Orders
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Authenticate)
	ordersAPI.HandleFunc("", orderHandler.List).Methods("GET")
	ordersAPI.HandleFunc("", adminOrSub(http.HandlerFunc(orderHandler.Create)).ServeHTTP).Methods("POST")
	ordersAPI.HandleFunc("/{id}", orderHandler.Get).Methods("GET")
	ordersAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(orderHandler.Delete)).ServeHTTP).Methods("DELETE")
	ordersAPI.HandleFunc("/{id}/info", orderHandler.UpdateInfo).Methods("PUT")
	ordersAPI.HandleFunc("/{id}/status", orderHandler.UpdateStatus).Methods("PUT")
	ordersAPI.HandleFunc("/{id}/assign", adminOrSub(http.HandlerFunc(orderHandler.Assign)).ServeHTTP).Methods("PUT")
	ordersAPI.HandleFunc("/{id}/items", orderHandler.UpdateItems).Methods("PUT")
	ordersAPI.HandleFunc("/{id}/comment", orderHandler.AddComment).Methods("POST")
	ordersAPI.HandleFunc("/{id}/invoice", orderHandler.Invoice).Methods("GET")

	// Protected API routes - Wallet
	walletAPI := r.PathPrefix("/api/wallet").Subrouter()
	walletAPI.Use(authMiddleware.Authenticate)
	walletAPI.HandleFunc("/balance", walletHandler.Balance).Methods("GET")
	walletAPI.HandleFunc("/transactions", walletHandler.Transactions).Methods("GET")
	walletAPI.HandleFunc("/create-order", subAdminOnly(http.HandlerFunc(walletHandler.CreateTopup)).ServeHTTP).Methods("POST")
	walletAPI.HandleFunc("/verify", subAdminOnly(http.HandlerFunc(walletHandler.VerifyTopup)).ServeHTTP).Methods("POST")

	// Protected API routes - Stats dashboard
	statsAPI := r.PathPrefix("/api/stats").Subrouter()
	statsAPI.Use(authMiddleware.Authenticate)
	statsAPI.HandleFunc("/summary", statsHandler.Summary).Methods("GET")

	// Protected API routes - Catalog (admin manages, everyone reads)
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.List).Methods("GET")
	productsAPI.HandleFunc("", adminOnly(http.HandlerFunc(productHandler.Create)).ServeHTTP).Methods("POST")
	productsAPI.HandleFunc("/{id}", productHandler.Get).Methods("GET")
	productsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(productHandler.Update)).ServeHTTP).Methods("PUT")
	productsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(productHandler.Delete)).ServeHTTP).Methods("DELETE")

	categoriesAPI := r.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(authMiddleware.Authenticate)
	categoriesAPI.HandleFunc("", categoryHandler.List).Methods("GET")
	categoriesAPI.HandleFunc("", adminOnly(http.HandlerFunc(categoryHandler.Create)).ServeHTTP).Methods("POST")
	categoriesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(categoryHandler.Rename)).ServeHTTP).Methods("PUT")
	categoriesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(categoryHandler.Delete)).ServeHTTP).Methods("DELETE")

	collectionsAPI := r.PathPrefix("/api/collections").Subrouter()
	collectionsAPI.Use(authMiddleware.Authenticate)
	collectionsAPI.HandleFunc("", collectionHandler.List).Methods("GET")
	collectionsAPI.HandleFunc("", adminOnly(http.HandlerFunc(collectionHandler.Create)).ServeHTTP).Methods("POST")
	collectionsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(collectionHandler.Rename)).ServeHTTP).Methods("PUT")
	collectionsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(collectionHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Uploads (admin only)
	uploadsAPI := r.PathPrefix("/api/uploads").Subrouter()
	uploadsAPI.Use(authMiddleware.Authenticate)
	uploadsAPI.HandleFunc("", adminOnly(http.HandlerFunc(uploadHandler.Upload)).ServeHTTP).Methods("POST")

	// Super admin console (env-credentialed, separate token type)
	r.HandleFunc("/api/super/login", superAdminHandler.Login).Methods("POST")
	superAPI := r.PathPrefix("/api/super").Subrouter()
	superAPI.Use(authMiddleware.RequireSuperAdmin)
	superAPI.HandleFunc("/sub-admins", superAdminHandler.ListSubAdmins).Methods("GET")
	superAPI.HandleFunc("/sub-admins", superAdminHandler.CreateSubAdmin).Methods("POST")
	superAPI.HandleFunc("/sub-admins/{id}/active", superAdminHandler.SetActive).Methods("PATCH")
	superAPI.HandleFunc("/sub-admins/{id}/add-fund", superAdminHandler.AddFund).Methods("POST")
	superAPI.HandleFunc("/sub-admins/{id}/transactions", superAdminHandler.Transactions).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
