package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"listing-hub/internal/config"
	"listing-hub/internal/database"
	"listing-hub/internal/handlers"
	"listing-hub/internal/notify"
	"listing-hub/internal/ratelimit"
	"listing-hub/internal/scheduler"
	"listing-hub/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	db           *database.DB
	gormDB       *database.GormDB
	searchClient *search.SearchClient
	appConfig    *config.Config
	rateLimiter  *ratelimit.RateLimiter
	appScheduler *scheduler.Scheduler
	outboxWorker *notify.OutboxWorker
)

func main() {
	// .env is optional; container deployments set real env vars
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/listing_hub.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "mysql" {
		log.Println("Using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err = database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "listing_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "listing_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "listing_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer gormDB.Close()

		if err := gormDB.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		log.Println("Using PostgreSQL")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		db, err = database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "listing_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "listing_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "listing_db"),
			getEnvOrConfig(pgCfg.SSLMode, "DB_SSLMODE", "disable"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	// Initialize Meilisearch using config
	meilisearchHost := appConfig.Search.Meilisearch.Host
	if meilisearchHost == "" {
		meilisearchHost = getEnv("MEILISEARCH_HOST", "")
	}
	if meilisearchHost != "" {
		meilisearchKey := appConfig.Search.Meilisearch.APIKey
		if meilisearchKey == "" {
			meilisearchKey = getEnv("MEILISEARCH_KEY", "")
		}

		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)

		// Wait for Meilisearch to be ready
		time.Sleep(2 * time.Second)

		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Meilisearch not configured, search endpoints disabled")
	}

	// Initialize rate limiter
	rateLimiter = ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour, %d req/day (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.RequestsPerDay,
		appConfig.RateLimit.Enabled,
	)

	// Notification service: outbox with MySQL, inline delivery otherwise
	webhookURL := appConfig.Slack.WebhookURL
	if webhookURL == "" {
		webhookURL = getEnv("SLACK_WEBHOOK_URL", "")
	}
	slackEnabled := appConfig.Slack.Enabled && webhookURL != ""
	slackClient := notify.NewSlackClient(webhookURL, appConfig.Slack.GetTimeout())

	var notifier *notify.Service
	if gormDB != nil {
		notifier = notify.NewService(gormDB.DB(), slackClient, slackEnabled)
		if slackEnabled {
			outboxWorker = notify.NewOutboxWorker(gormDB.DB(), slackClient, appConfig.Slack.MaxAttempts)
			outboxWorker.Start()
			defer outboxWorker.Stop()
		}
	} else {
		notifier = notify.NewService(nil, slackClient, slackEnabled)
	}

	// Scheduler (MySQL only)
	if gormDB != nil {
		appScheduler = scheduler.NewScheduler(gormDB.DB(), searchClient, appConfig)
		if err := appScheduler.Start(); err != nil {
			log.Printf("Warning: Failed to start scheduler: %v", err)
		}
		defer appScheduler.Stop()
	}

	// Setup Gin router
	r := gin.Default()

	allowOrigins := appConfig.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5173"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
	}))

	r.GET("/health", healthCheck)
	r.GET("/api/ratelimit/stats", getRateLimitStats)

	if gormDB != nil {
		listingHandler := handlers.NewListingHandler(gormDB, searchClient, notifier)

		r.GET("/api/listings", rateLimitMiddleware(), listingHandler.GetListings)
		r.GET("/api/listings/:number", rateLimitMiddleware(), listingHandler.GetListing)
		r.POST("/api/listings", rateLimitMiddleware(), listingHandler.CreateListing)
		r.PUT("/api/listings/:number", rateLimitMiddleware(), listingHandler.UpdateListing)
		r.DELETE("/api/listings/:number", rateLimitMiddleware(), listingHandler.DeleteListing)
		r.POST("/api/listings/:number/restore", rateLimitMiddleware(), listingHandler.RestoreListing)

		r.GET("/api/search", rateLimitMiddleware(), listingHandler.SearchListings)
		r.POST("/api/search/advanced", rateLimitMiddleware(), listingHandler.AdvancedSearch)
		r.GET("/api/search/facets", listingHandler.GetSearchFacets)
		r.POST("/api/search/reindex", listingHandler.ReindexAll)

		adminToken := appConfig.Server.AdminToken
		if adminToken == "" {
			adminToken = getEnv("ADMIN_TOKEN", "")
		}

		adminHandler := handlers.NewAdminHandler(gormDB, appScheduler, outboxWorker)
		admin := r.Group("/api/admin", handlers.AdminAuth(adminToken))
		{
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/dong-stats", adminHandler.GetDongStats)
			admin.GET("/trash", adminHandler.GetTrash)
			admin.GET("/imports", adminHandler.GetImportLogs)

			admin.POST("/cleanup/run", adminHandler.RunCleanup)
			admin.GET("/cleanup/logs", adminHandler.GetDeleteLogs)

			admin.GET("/listings/:number/history", adminHandler.GetListingHistory)
			admin.GET("/changes/recent", adminHandler.GetRecentChanges)

			admin.GET("/queue/stats", adminHandler.GetQueueStats)
			admin.POST("/maintenance/run", adminHandler.TriggerMaintenance)
		}

		log.Println("Admin API routes registered at /api/admin/*")
	} else {
		// PostgreSQL backend serves the read-only surface only
		r.GET("/api/listings", rateLimitMiddleware(), getListingsPostgres)
		r.GET("/api/listings/:number", rateLimitMiddleware(), getListingPostgres)
		log.Println("PostgreSQL backend: write, search and admin endpoints require MySQL/GORM")
	}

	port := appConfig.Server.Port
	if port == "" {
		port = getEnv("PORT", "8085")
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getListingsPostgres(c *gin.Context) {
	listings, err := db.GetActiveListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"total":    len(listings),
	})
}

func getListingPostgres(c *gin.Context) {
	listing, err := db.GetListingByNumber(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

// rateLimitMiddleware returns a Gin middleware that enforces rate limiting
func rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimiter.AllowRequest() {
			stats := rateLimiter.GetStats()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   stats,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// getRateLimitStats returns current rate limiter statistics
func getRateLimitStats(c *gin.Context) {
	stats := rateLimiter.GetStats()
	c.JSON(http.StatusOK, stats)
}
