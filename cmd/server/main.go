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
	"github.com/sophisticated-cleaners/booking-backend/internal/config"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/handlers"
	"github.com/sophisticated-cleaners/booking-backend/internal/middleware"
	"github.com/sophisticated-cleaners/booking-backend/internal/services"
	"github.com/sophisticated-cleaners/booking-backend/pkg/geocode"
	"github.com/sophisticated-cleaners/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Sophisticated Cleaners Booking Backend")
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

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	userSessionRepository := database.NewUserSessionRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	scheduleRepository := database.NewScheduleRepository(db)
	availabilityRepository := database.NewAvailabilityRepository(db)
	staffRepository := database.NewStaffRepository(db)
	notificationRepository := database.NewNotificationRepository(db)
	taskRepository := database.NewTaskRepository(db)
	reviewRepository := database.NewReviewRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	geocoder := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent)

	authService := services.NewAuthService(
		userRepository, userSessionRepository, jwtService, cfg.Security.BcryptCost, logger,
	)
	quoteService := services.NewQuoteService()
	notificationService := services.NewNotificationService(notificationRepository, bookingRepository, logger)
	bookingService := services.NewBookingService(
		bookingRepository, taskRepository, reviewRepository, userRepository,
		quoteService, notificationService, geocoder, logger,
	)
	claimService := services.NewClaimService(bookingRepository, scheduleRepository, logger)
	scheduleService := services.NewScheduleService(
		bookingRepository, scheduleRepository, availabilityRepository, claimService, logger,
	)
	staffService := services.NewStaffService(staffRepository, userRepository, availabilityRepository, logger)
	paymentService := services.NewPaymentService(&cfg.Stripe, bookingRepository, logger)

	// Start the reminder sweep
	reminderService := services.NewReminderService(notificationService, cfg.Reminder, logger)
	if err := reminderService.Start(); err != nil {
		logger.Fatalf("Failed to start reminder service: %v", err)
	}

	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, staffService, scheduleRepository)
	staffHandler := handlers.NewStaffHandler(staffService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepository)
	paymentHandler := handlers.NewPaymentHandler(paymentService, bookingService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(jwtService, logger))
			{
				authProtected.GET("/me", authHandler.Me)
				authProtected.GET("/sessions", authHandler.Sessions)
			}
		}

		// Quote calculation (public, shown before signup)
		v1.POST("/quotes", quoteHandler.Calculate)

		// Booking routes (protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService, logger))
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.GET("/:id/tasks", bookingHandler.Tasks)
			bookings.POST("/:id/reviews", bookingHandler.CreateReview)
			bookings.GET("/:id/reviews", bookingHandler.ListReviews)
			bookings.POST("/:id/payment-intent", paymentHandler.CreateIntent)
			bookings.POST("/:id/payment-confirm", paymentHandler.Confirm)
		}

		// Checklist items (staff)
		tasks := v1.Group("/tasks")
		tasks.Use(middleware.AuthMiddleware(jwtService, logger), middleware.RequireRole("staff", "admin"))
		{
			tasks.PATCH("/:id", bookingHandler.UpdateTask)
		}

		// Job claiming and schedules (staff)
		jobs := v1.Group("/jobs")
		jobs.Use(middleware.AuthMiddleware(jwtService, logger), middleware.RequireRole("staff"))
		{
			jobs.POST("/:id/claim", scheduleHandler.Claim)
		}

		schedule := v1.Group("/schedule")
		schedule.Use(middleware.AuthMiddleware(jwtService, logger))
		{
			schedule.GET("", middleware.RequireRole("staff"), scheduleHandler.MySchedule)
			schedule.PATCH("/:id", middleware.RequireRole("staff"), scheduleHandler.UpdateEntryStatus)
			schedule.DELETE("/:id", middleware.RequireRole("admin"), scheduleHandler.Unassign)
		}

		// Staff management (admin)
		staff := v1.Group("/staff")
		staff.Use(middleware.AuthMiddleware(jwtService, logger), middleware.RequireRole("admin"))
		{
			staff.POST("", staffHandler.Add)
			staff.GET("", staffHandler.List)
			staff.PATCH("/:id/status", staffHandler.UpdateStatus)
		}

		// Workers manage their own weekly windows
		availability := v1.Group("/availability")
		availability.Use(middleware.AuthMiddleware(jwtService, logger), middleware.RequireRole("staff"))
		{
			availability.GET("", staffHandler.GetAvailability)
			availability.PUT("", staffHandler.SetAvailability)
		}

		// Notifications (any authenticated user)
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthMiddleware(jwtService, logger))
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
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

	reminderService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)

		logger.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      c.Request.URL.RawQuery,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		}).Info("Request completed")
	}
}

// healthCheckHandler reports server and database health
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
