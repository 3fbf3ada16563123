package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/cache"
	"github.com/brandbuilder/reviewgate-backend/internal/config"
	"github.com/brandbuilder/reviewgate-backend/internal/database"
	"github.com/brandbuilder/reviewgate-backend/internal/handlers"
	"github.com/brandbuilder/reviewgate-backend/internal/middleware"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/monitoring"
	"github.com/brandbuilder/reviewgate-backend/internal/services"
	"github.com/brandbuilder/reviewgate-backend/migrations"
	"github.com/brandbuilder/reviewgate-backend/pkg/jwt"
	"github.com/brandbuilder/reviewgate-backend/pkg/mailer"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

// tokenCleanupInterval controls how often expired refresh tokens are purged
const tokenCleanupInterval = 6 * time.Hour

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting ReviewGate Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Apply schema migrations
	if err := database.RunMigrations(cfg.Database.URL, migrations.FS, migrations.Path, logger); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize metrics registry
	monitoring.Init()

	// Initialize Redis (optional, used for review rate limiting)
	var cacheClient *cache.Client
	if cfg.Redis.Enabled {
		logger.Info("Connecting to Redis...")
		cacheClient, err = cache.NewClient(cfg.Redis.URL)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cacheClient.Close()
		logger.Info("Redis connection established")
	} else {
		logger.Info("Redis disabled, review rate limiting is off")
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	refreshTokenRepository := database.NewRefreshTokenRepository(db)
	businessRepository := database.NewBusinessRepository(db)
	reviewRepository := database.NewReviewRepository(db)
	feedbackRepository := database.NewFeedbackRepository(db)

	// Initialize mail gateway
	var mailGateway mailer.Mailer
	if cfg.Mail.Mode == "production" {
		logger.Info("Initializing mail gateway in production mode...")
		mailGateway = mailer.NewHTTPGateway(mailer.GatewayConfig{
			APIURL:    cfg.Mail.APIURL,
			Username:  cfg.Mail.Username,
			Password:  cfg.Mail.Password,
			FromEmail: cfg.Mail.FromEmail,
		})
	} else {
		logger.Info("Mail gateway in development mode (emails are logged, not sent)")
		mailGateway = mailer.NewDevMailer(logger)
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(db)
	notificationService := services.NewNotificationService(mailGateway, userRepository, logger, cfg.App.Name, cfg.App.FrontendURL)
	ratingService := services.NewRatingService(businessRepository, logger)
	reviewService := services.NewReviewService(reviewRepository, businessRepository, ratingService, notificationService, logger)
	feedbackService := services.NewFeedbackService(feedbackRepository, reviewRepository, logger)
	businessService := services.NewBusinessService(businessRepository, logger)
	authService := services.NewAuthService(userRepository, refreshTokenRepository, jwtService, auditService, cfg.Admin, logger)

	var rateLimitService *services.RateLimitService
	if cacheClient != nil {
		rateLimitService = services.NewRateLimitService(cacheClient, logger, cfg.RateLimit.ReviewsPerWindow, cfg.RateLimit.WindowSeconds)
	}
	logger.Info("Services initialized")

	// Seed the bootstrap admin account if configured
	if err := authService.EnsureBootstrapAdmin(); err != nil {
		logger.Fatalf("Failed to ensure bootstrap admin: %v", err)
	}

	// Periodic refresh token cleanup
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go runTokenCleanup(cleanupCtx, authService, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	businessHandler := handlers.NewBusinessHandler(businessService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, auditService, logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, logger)
	adminBusinessHandler := handlers.NewAdminBusinessHandler(businessService, ratingService, auditService, logger)
	adminReviewHandler := handlers.NewAdminReviewHandler(reviewService, businessService, logger)
	adminFeedbackHandler := handlers.NewAdminFeedbackHandler(feedbackService, logger)
	adminUserHandler := handlers.NewAdminUserHandler(authService, auditService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(monitoring.MetricsMiddleware())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check and metrics endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", monitoring.GinHandler())

	api := router.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/provider-login", authHandler.ProviderLogin)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/status", middleware.OptionalAuth(jwtService), authHandler.Status)

			// Protected routes (require JWT authentication)
			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("/logout", authHandler.Logout)
				protected.GET("/user", authHandler.GetUser)
			}
		}

		// Bootstrap admin password login (public by necessity)
		api.POST("/admin/auth/login", authHandler.AdminLogin)

		// Business directory routes
		businesses := api.Group("/businesses")
		{
			// Public routes (no authentication)
			businesses.GET("", businessHandler.List)
			businesses.GET("/top-rated", businessHandler.TopRated)
			businesses.GET("/search", businessHandler.Search)
			businesses.GET("/:id", businessHandler.GetByID)
			businesses.GET("/:id/image", businessHandler.GetImage)

			// Review submission (rate limited per client IP)
			businesses.POST("/:id/reviews",
				middleware.AuthMiddleware(jwtService),
				middleware.ReviewRateLimit(rateLimitService, auditService, logger),
				reviewHandler.Create,
			)
			businesses.POST("/:id/reviews/anonymous",
				middleware.ReviewRateLimit(rateLimitService, auditService, logger),
				reviewHandler.CreateAnonymous,
			)
		}

		// Review routes
		reviews := api.Group("/reviews")
		{
			// Public routes
			reviews.GET("/business/:businessId", reviewHandler.ListByBusiness)
			reviews.GET("/:id", reviewHandler.GetByID)
			reviews.POST("/:id/feedback", feedbackHandler.Create)

			// Protected routes
			reviewsProtected := reviews.Group("")
			reviewsProtected.Use(middleware.AuthMiddleware(jwtService))
			{
				reviewsProtected.GET("/check/:businessId", reviewHandler.Check)
				reviewsProtected.GET("/my-reviews", reviewHandler.MyReviews)
				reviewsProtected.PUT("/:id", reviewHandler.Update)
				reviewsProtected.DELETE("/:id", reviewHandler.Delete)
			}
		}

		// Feedback lookup (public, used by the post-review thank-you page)
		api.GET("/feedback/review/:reviewId", feedbackHandler.GetByReview)

		// Owner and admin routes (all protected)
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		{
			// Business management (business owners and admins)
			adminBusinesses := admin.Group("/businesses")
			adminBusinesses.Use(middleware.RequireRole(models.RoleBusinessOwner, models.RoleAdmin))
			{
				adminBusinesses.GET("/my-businesses", adminBusinessHandler.MyBusinesses)
				adminBusinesses.POST("", adminBusinessHandler.Create)
				adminBusinesses.PUT("/:id",
					middleware.RequireBusinessOwnership(businessRepository, logger),
					adminBusinessHandler.Update,
				)
				adminBusinesses.DELETE("/:id",
					middleware.RequireBusinessOwnership(businessRepository, logger),
					adminBusinessHandler.Delete,
				)
				adminBusinesses.POST("/reconcile-ratings",
					middleware.RequireRole(models.RoleAdmin),
					adminBusinessHandler.ReconcileRatings,
				)
			}

			// Review queries (owners see their own businesses, admins see all)
			adminReviews := admin.Group("/reviews")
			adminReviews.Use(middleware.RequireRole(models.RoleBusinessOwner, models.RoleAdmin))
			{
				adminReviews.GET("", middleware.RequireRole(models.RoleAdmin), adminReviewHandler.ListAll)
				adminReviews.GET("/low-rating", middleware.RequireRole(models.RoleAdmin), adminReviewHandler.LowRating)
				adminReviews.GET("/business/:businessId", adminReviewHandler.ByBusiness)
			}

			// Feedback management (admin only)
			adminFeedback := admin.Group("/feedback")
			adminFeedback.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminFeedback.GET("", adminFeedbackHandler.ListAll)
				adminFeedback.GET("/new", adminFeedbackHandler.New)
				adminFeedback.GET("/status/:status", adminFeedbackHandler.ByStatus)
				adminFeedback.GET("/followup-required", adminFeedbackHandler.FollowupRequired)
				adminFeedback.GET("/:id", adminFeedbackHandler.GetByID)
				adminFeedback.PUT("/:id/status", adminFeedbackHandler.UpdateStatus)
				adminFeedback.DELETE("/:id", adminFeedbackHandler.Delete)
			}

			// User and role management (admin only)
			adminUsers := admin.Group("/users")
			adminUsers.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminUsers.GET("", adminUserHandler.List)
				adminUsers.PUT("/:id/roles", adminUserHandler.UpdateRoles)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancelCleanup()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// runTokenCleanup purges expired refresh tokens on a fixed interval until the
// context is cancelled. Failures are logged and retried on the next tick.
func runTokenCleanup(ctx context.Context, authService *services.AuthService, logger *logrus.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := authService.CleanupExpiredTokens()
			if err != nil {
				logger.WithError(err).Error("Failed to clean up expired refresh tokens")
				continue
			}
			if deleted > 0 {
				logger.WithField("deleted", deleted).Info("Expired refresh tokens cleaned up")
			}
		}
	}
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["roles"] = userCtx.Roles
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
