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

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexgencrm/backend/config"
	"github.com/nexgencrm/backend/pkg/api/handlers"
	"github.com/nexgencrm/backend/pkg/cache"
	"github.com/nexgencrm/backend/pkg/catalog"
	"github.com/nexgencrm/backend/pkg/dashboard"
	"github.com/nexgencrm/backend/pkg/database"
	"github.com/nexgencrm/backend/pkg/export"
	"github.com/nexgencrm/backend/pkg/followup"
	"github.com/nexgencrm/backend/pkg/lifecycle"
	"github.com/nexgencrm/backend/pkg/logger"
	"github.com/nexgencrm/backend/pkg/metrics"
	custommw "github.com/nexgencrm/backend/pkg/middleware"
	"github.com/nexgencrm/backend/pkg/party"
	"github.com/nexgencrm/backend/pkg/tasks"
)

func main() {
	// Load configuration
	cfg := config.Load()
	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("configuration loaded", "environment", cfg.APIEnvironment)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			appLogger.Warn("failed to initialize Sentry", "error", err)
		} else {
			appLogger.Info("Sentry initialized", "environment", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis cache
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Rate limiters: one global, a stricter one for the auth endpoints
	globalRateLimiter := custommw.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	authRateLimiter := custommw.NewRateLimiter(10, 3)

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				appLogger.Error("request", "method", v.Method, "uri", v.URI, "status", v.Status, "error", v.Error)
			} else {
				appLogger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	e.Use(prometheusMetrics.Middleware())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowCredentials: true,
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
		},
	}))

	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(globalRateLimiter.Middleware())

	// Health check endpoint (public)
	e.GET("/health", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":   "unhealthy",
				"database": "down",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":   "healthy",
			"database": "up",
		})
	})

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Initialize services
	partyService := party.NewService(db.Gorm)
	followupService := followup.NewService(db.Gorm)
	lifecycleService := lifecycle.NewService(db.Gorm)
	catalogService := catalog.NewService(db.Gorm)
	taskService := tasks.NewService(db.Gorm)
	exportService := export.NewService(db.Gorm)
	dashboardService := dashboard.NewService(db.Gorm, redisClient, time.Duration(cfg.DashboardCacheTTLSeconds)*time.Second)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(partyService, cfg, prometheusMetrics)
	leadHandler := handlers.NewLeadHandler(partyService, followupService, exportService, dashboardService, prometheusMetrics)
	customerHandler := handlers.NewCustomerHandler(partyService)
	userHandler := handlers.NewUserHandler(partyService)
	inquiryHandler := handlers.NewInquiryHandler(lifecycleService, followupService, prometheusMetrics)
	billingHandler := handlers.NewBillingHandler(lifecycleService, prometheusMetrics)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	taskHandler := handlers.NewTaskHandler(taskService, dashboardService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	api := e.Group("/api")

	// Authentication routes (public, tighter rate limit)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register, authRateLimiter.Middleware())
		authRoutes.POST("/login", authHandler.Login, authRateLimiter.Middleware())
	}

	// Protected routes (require JWT)
	protected := api.Group("")
	protected.Use(custommw.JWTAuth(cfg.JWTSecret))
	{
		leadsGroup := protected.Group("/leads")
		{
			// Fixed paths before /:id to avoid route conflicts
			leadsGroup.GET("/dashboard/followups/summary", leadHandler.FollowUpSummary)
			leadsGroup.GET("/export", leadHandler.ExportLeads)
			leadsGroup.GET("", leadHandler.ListLeads)
			leadsGroup.POST("", leadHandler.CreateLead)
			leadsGroup.GET("/:id", leadHandler.GetLead)
			leadsGroup.PUT("/:id", leadHandler.UpdateLead)
			leadsGroup.DELETE("/:id", leadHandler.DeleteLead)
			leadsGroup.GET("/:id/followups", leadHandler.ListFollowUps)
			leadsGroup.POST("/:id/followups", leadHandler.AddFollowUp)
			leadsGroup.PUT("/:id/followups/:followupId", leadHandler.UpdateFollowUp)
			leadsGroup.DELETE("/:id/followups/:followupId", leadHandler.DeleteFollowUp)
		}

		customersGroup := protected.Group("/customers")
		{
			customersGroup.GET("", customerHandler.ListCustomers)
			customersGroup.POST("", customerHandler.CreateCustomer)
			customersGroup.GET("/:id", customerHandler.GetCustomer)
			customersGroup.PUT("/:id", customerHandler.UpdateCustomer)
			customersGroup.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		inquiriesGroup := protected.Group("/inquiries")
		{
			inquiriesGroup.GET("", inquiryHandler.ListInquiries)
			inquiriesGroup.POST("", inquiryHandler.CreateInquiry)
			inquiriesGroup.GET("/:id", inquiryHandler.GetInquiry)
			inquiriesGroup.PUT("/:id", inquiryHandler.UpdateInquiry)
			inquiriesGroup.DELETE("/:id", inquiryHandler.DeleteInquiry)
			inquiriesGroup.POST("/:id/followups", inquiryHandler.AddFollowUp)
			inquiriesGroup.PUT("/:id/followups/:followupId", inquiryHandler.UpdateFollowUp)
			inquiriesGroup.DELETE("/:id/followups/:followupId", inquiryHandler.DeleteFollowUp)
		}

		quotationsGroup := protected.Group("/quotations")
		{
			quotationsGroup.GET("", billingHandler.ListQuotations)
			quotationsGroup.POST("", billingHandler.CreateQuotation)
			quotationsGroup.GET("/:id", billingHandler.GetQuotation)
			quotationsGroup.PUT("/:id", billingHandler.UpdateQuotation)
			quotationsGroup.DELETE("/:id", billingHandler.DeleteQuotation)
		}

		proformaGroup := protected.Group("/proforma-invoices")
		{
			proformaGroup.GET("", billingHandler.ListProformas)
			proformaGroup.POST("", billingHandler.CreateProforma)
			proformaGroup.GET("/:id", billingHandler.GetProforma)
			proformaGroup.PUT("/:id", billingHandler.UpdateProforma)
			proformaGroup.DELETE("/:id", billingHandler.DeleteProforma)
		}

		productsGroup := protected.Group("/products")
		{
			productsGroup.GET("", catalogHandler.ListProducts)
			productsGroup.POST("", catalogHandler.CreateProduct)
			productsGroup.GET("/:id", catalogHandler.GetProduct)
			productsGroup.PUT("/:id", catalogHandler.UpdateProduct)
			productsGroup.DELETE("/:id", catalogHandler.DeleteProduct)
		}

		leadSourcesGroup := protected.Group("/lead-sources")
		{
			leadSourcesGroup.GET("", catalogHandler.ListLeadSources)
			leadSourcesGroup.POST("", catalogHandler.CreateLeadSource)
			leadSourcesGroup.DELETE("/:id", catalogHandler.DeleteLeadSource)
		}

		tasksGroup := protected.Group("/tasks")
		{
			tasksGroup.GET("", taskHandler.ListTasks)
			tasksGroup.POST("", taskHandler.CreateTask)
			tasksGroup.GET("/:id", taskHandler.GetTask)
			tasksGroup.PUT("/:id", taskHandler.UpdateTask)
			tasksGroup.DELETE("/:id", taskHandler.DeleteTask)
		}

		protected.GET("/dashboard/summary", dashboardHandler.Summary)

		// User management (admin only)
		usersGroup := protected.Group("/users")
		usersGroup.Use(custommw.RequireAdmin())
		{
			usersGroup.GET("", userHandler.ListUsers)
			usersGroup.POST("", userHandler.CreateUser)
			usersGroup.GET("/:id", userHandler.GetUser)
			usersGroup.PUT("/:id", userHandler.UpdateUser)
			usersGroup.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	appLogger.Info("starting server", "address", address)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	appLogger.Info("server stopped")
}
