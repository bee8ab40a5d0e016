package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"listing-hub/internal/config"
	"listing-hub/internal/database"
	"listing-hub/internal/importer"
	"listing-hub/internal/models"
	"listing-hub/internal/notify"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Bulk CSV import. Runs the full pipeline against the configured database
// and records the run in import_logs (MySQL backend only).
func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	var (
		sourcePath = flag.String("file", "", "path to the CSV/TSV export to import")
		configPath = flag.String("config", getEnv("CONFIG_PATH", "config/listing_hub.yaml"), "path to the YAML config")
		batchSize  = flag.Int("batch", 0, "override batch size")
		strict     = flag.Bool("strict", false, "reject unknown status values instead of passing them through")
	)
	flag.Parse()

	appConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", *configPath, err)
		appConfig = config.DefaultConfig()
	}

	path := *sourcePath
	if path == "" {
		path = appConfig.Import.SourcePath
	}
	if path == "" {
		log.Println("Usage: import -file <export.csv>")
		os.Exit(1)
	}

	opts := importer.Options{
		SourcePath:       path,
		BatchSize:        appConfig.Import.BatchSize,
		BatchDelay:       appConfig.Import.GetBatchDelay(),
		StatusPolicy:     importer.StatusPolicy(appConfig.Import.StatusPolicy),
		DatePolicy:       importer.DatePolicy(appConfig.Import.DatePolicy),
		ReseedFromStore:  appConfig.Import.ReseedFromStore,
		ErrorSampleLimit: appConfig.Import.ErrorSampleLimit,
		ReportPath:       reportPath(path, appConfig.Import.ReportPath),
	}
	if *batchSize > 0 {
		opts.BatchSize = *batchSize
	}
	if *strict {
		opts.StatusPolicy = importer.StatusStrict
	}

	store, gormDB := openStore(appConfig)

	runID := uuid.NewString()
	startedAt := time.Now()
	log.Printf("Import: run %s starting for %s (batch=%d, status=%s, dates=%s)",
		runID, path, opts.BatchSize, opts.StatusPolicy, opts.DatePolicy)

	pipeline := importer.New(store, opts)
	transformed, uploaded, err := pipeline.Run()
	if err != nil {
		log.Fatalf("Import: run %s failed: %v", runID, err)
	}

	finishedAt := time.Now()
	log.Printf("Import: run %s finished in %s: %d/%d uploaded, %d failed, %d skipped",
		runID, finishedAt.Sub(startedAt).Round(time.Millisecond),
		uploaded.SuccessCount, transformed.TotalRows, uploaded.ErrorCount, transformed.Skipped)

	for _, e := range uploaded.Errors {
		log.Printf("Import: sample failure row=%d number=%s: %s", e.Row, e.PropertyNumber, e.Error)
	}

	if gormDB != nil {
		importLog := models.ImportLog{
			RunID:      runID,
			SourcePath: path,
			TotalRows:  transformed.TotalRows,
			Success:    uploaded.SuccessCount,
			Failed:     uploaded.ErrorCount,
			Skipped:    transformed.Skipped,
			ReportPath: opts.ReportPath,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
		}
		if err := gormDB.DB().Create(&importLog).Error; err != nil {
			log.Printf("Import: failed to record import log: %v", err)
		}
	}

	notifyImport(appConfig, path, transformed, uploaded)
}

// openStore connects to the configured backend and returns it as the
// pipeline's store. The GormDB is also returned when available so the run
// can be logged.
func openStore(appConfig *config.Config) (importer.ListingStore, *database.GormDB) {
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "mysql" {
		mysqlCfg := appConfig.Database.MySQL
		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err := database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "listing_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "listing_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "listing_db"),
		)
		if err != nil {
			log.Fatalf("Import: failed to connect to MySQL: %v", err)
		}
		if err := gormDB.InitSchema(); err != nil {
			log.Fatalf("Import: failed to initialize schema: %v", err)
		}
		return gormDB, gormDB
	}

	pgCfg := appConfig.Database.Postgres
	portStr := ""
	if pgCfg.Port > 0 {
		portStr = fmt.Sprintf("%d", pgCfg.Port)
	}

	db, err := database.NewDB(
		getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
		getEnvOrConfig(portStr, "DB_PORT", "5432"),
		getEnvOrConfig(pgCfg.User, "DB_USER", "listing_user"),
		getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "listing_pass"),
		getEnvOrConfig(pgCfg.Database, "DB_NAME", "listing_db"),
		getEnvOrConfig(pgCfg.SSLMode, "DB_SSLMODE", "disable"),
	)
	if err != nil {
		log.Fatalf("Import: failed to connect to PostgreSQL: %v", err)
	}
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Import: failed to initialize schema: %v", err)
	}
	return db, nil
}

// reportPath resolves the failure report location: an absolute configured
// path wins, otherwise the report lands next to the source file.
func reportPath(sourcePath, configured string) string {
	if configured == "" {
		configured = "failed_rows.json"
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join(filepath.Dir(sourcePath), base+"_"+configured)
}

func notifyImport(appConfig *config.Config, path string, transformed *importer.TransformResult, uploaded *importer.UploadResult) {
	webhookURL := appConfig.Slack.WebhookURL
	if webhookURL == "" {
		webhookURL = getEnv("SLACK_WEBHOOK_URL", "")
	}
	if !appConfig.Slack.Enabled || webhookURL == "" {
		return
	}

	client := notify.NewSlackClient(webhookURL, appConfig.Slack.GetTimeout())
	notifier := notify.NewService(nil, client, true)
	notifier.NotifyImport(path, transformed.TotalRows, uploaded.SuccessCount, uploaded.ErrorCount, transformed.Skipped)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
