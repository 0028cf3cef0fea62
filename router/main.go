package router

import (
	"log"
	"os"
	"time"

	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/handlers"
	admin_handlers "github.com/Niwatda/softwareshop/handlers/admin"
	auth_handlers "github.com/Niwatda/softwareshop/handlers/auth"
	catalog_handlers "github.com/Niwatda/softwareshop/handlers/catalog"
	download_handlers "github.com/Niwatda/softwareshop/handlers/download"
	order_handlers "github.com/Niwatda/softwareshop/handlers/order"
	page_handlers "github.com/Niwatda/softwareshop/handlers/page"
	"github.com/Niwatda/softwareshop/services"
	"github.com/Niwatda/softwareshop/services/storage"
	"github.com/Niwatda/softwareshop/utils/auth"
	"github.com/Niwatda/softwareshop/utils/cache"
	"github.com/Niwatda/softwareshop/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "softwareshop-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db := store.GetDB()

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Object storage client; downloads and uploads both need it
	spacesConfig, err := storage.GetGlobalConfig()
	if err != nil {
		log.Fatalf("Object storage is not configured: %v", err)
	}
	spacesClient, err := storage.NewSpacesClient(*spacesConfig)
	if err != nil {
		log.Fatalf("Failed to create object storage client: %v", err)
	}

	// Services
	orderService := services.NewOrderService(db)
	downloadService := services.NewDownloadService(db, spacesClient)
	uploadService := services.NewUploadService(spacesClient)

	// Handlers
	healthHandler := handlers.NewHealthHandler(store)
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	catalogHandler := catalog_handlers.NewCatalogHandler(db)
	orderHandler := order_handlers.NewOrderHandler(db, orderService, uploadService)
	downloadHandler := download_handlers.NewDownloadHandler(downloadService)
	pageHandler := page_handlers.NewPageHandler(db)
	uploadHandler := admin_handlers.NewUploadHandler(uploadService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", healthHandler.Check)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile
	api.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	api.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Public catalog
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:slug", catalogHandler.GetProduct)

	// Public site content
	api.Get("/pages", pageHandler.ListPages)
	api.Get("/pages/:slug", pageHandler.GetPage)
	api.Get("/site-settings", pageHandler.ListSiteSettings)

	// Checkout and account (authenticated users)
	api.Post("/checkout", authMiddleware.Required(), orderHandler.Checkout)
	api.Post("/uploads/slip", authMiddleware.Required(), orderHandler.UploadSlip)
	api.Get("/account/orders", authMiddleware.Required(), orderHandler.ListMyOrders)
	api.Get("/account/downloads", authMiddleware.Required(), orderHandler.ListMyDownloads)
	api.Get("/account/stats", authMiddleware.Required(), orderHandler.MyStats)

	// Download broker: entitlement is re-checked on every request
	api.Get("/download/:product_id", authMiddleware.Required(), downloadHandler.Get)

	// Admin namespace
	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	// Products
	admin.Get("/products", func(c *fiber.Ctx) error { return admin_handlers.ListProducts(c, store) })
	admin.Get("/products/:id", func(c *fiber.Ctx) error { return admin_handlers.GetProduct(c, store) })
	admin.Post("/products", middleware.AdminAuditLog(db, "product_create", "products"), func(c *fiber.Ctx) error { return admin_handlers.CreateProduct(c, store) })
	admin.Put("/products/:id", middleware.AdminAuditLog(db, "product_update", "products"), func(c *fiber.Ctx) error { return admin_handlers.UpdateProduct(c, store) })
	admin.Delete("/products/:id", middleware.AdminAuditLog(db, "product_delete", "products"), func(c *fiber.Ctx) error { return admin_handlers.DeleteProduct(c, store) })

	// Orders
	admin.Get("/orders", func(c *fiber.Ctx) error { return admin_handlers.ListOrders(c, store) })
	admin.Get("/orders/:id", func(c *fiber.Ctx) error { return admin_handlers.GetOrder(c, store) })
	admin.Patch("/orders/:id", middleware.AdminAuditLog(db, "order_transition", "orders"), func(c *fiber.Ctx) error { return admin_handlers.UpdateOrderStatus(c, store) })

	// Users
	admin.Get("/users", func(c *fiber.Ctx) error { return admin_handlers.ListUsers(c, store) })
	admin.Get("/users/:id", func(c *fiber.Ctx) error { return admin_handlers.GetUser(c, store) })
	admin.Put("/users/:id", middleware.AdminAuditLog(db, "user_update", "users"), func(c *fiber.Ctx) error { return admin_handlers.UpdateUser(c, store) })
	admin.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), func(c *fiber.Ctx) error { return admin_handlers.DeleteUser(c, store) })
	admin.Post("/users/:id/reset-password", middleware.AdminAuditLog(db, "password_reset", "users"), func(c *fiber.Ctx) error { return admin_handlers.ResetUserPassword(c, store) })

	// Pages
	admin.Get("/pages", func(c *fiber.Ctx) error { return admin_handlers.ListPages(c, store) })
	admin.Get("/pages/:id", func(c *fiber.Ctx) error { return admin_handlers.GetPage(c, store) })
	admin.Post("/pages", middleware.AdminAuditLog(db, "page_create", "pages"), func(c *fiber.Ctx) error { return admin_handlers.CreatePage(c, store) })
	admin.Put("/pages/:id", middleware.AdminAuditLog(db, "page_update", "pages"), func(c *fiber.Ctx) error { return admin_handlers.UpdatePage(c, store) })
	admin.Delete("/pages/:id", middleware.AdminAuditLog(db, "page_delete", "pages"), func(c *fiber.Ctx) error { return admin_handlers.DeletePage(c, store) })

	// Site settings
	admin.Get("/site-settings", func(c *fiber.Ctx) error { return admin_handlers.ListSettings(c, store) })
	admin.Get("/site-settings/:key", func(c *fiber.Ctx) error { return admin_handlers.GetSetting(c, store) })
	admin.Put("/site-settings/:key", middleware.AdminAuditLog(db, "setting_update", "site_settings"), func(c *fiber.Ctx) error { return admin_handlers.UpsertSetting(c, store) })
	admin.Delete("/site-settings/:key", middleware.AdminAuditLog(db, "setting_delete", "site_settings"), func(c *fiber.Ctx) error { return admin_handlers.DeleteSetting(c, store) })

	// Dashboard and audit trail
	admin.Get("/stats", func(c *fiber.Ctx) error { return admin_handlers.GetDashboardStats(c, store) })
	admin.Get("/audit", func(c *fiber.Ctx) error { return admin_handlers.ListAuditLogs(c, store) })

	// Program artifact uploads (multipart, direct-to-storage)
	admin.Post("/uploads", middleware.AdminAuditLog(db, "upload_create", "uploads"), uploadHandler.CreateUpload)
	admin.Post("/uploads/image", middleware.AdminAuditLog(db, "image_upload", "uploads"), uploadHandler.UploadImage)
	admin.Post("/uploads/:upload_id/parts", uploadHandler.SignParts)
	admin.Post("/uploads/:upload_id/complete", middleware.AdminAuditLog(db, "upload_complete", "uploads"), uploadHandler.CompleteUpload)
	admin.Delete("/uploads/:upload_id", middleware.AdminAuditLog(db, "upload_abort", "uploads"), uploadHandler.AbortUpload)
}
