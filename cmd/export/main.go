package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"

	"listing-hub/internal/config"
	"listing-hub/internal/database"
	"listing-hub/internal/importer"
	"listing-hub/internal/models"

	"github.com/joho/godotenv"
)

// CSV export of all non-deleted listings, with the same Korean headers the
// importer accepts so the output can be re-imported as-is.
func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	var (
		outPath    = flag.String("out", "listings_export.csv", "output file path")
		configPath = flag.String("config", getEnv("CONFIG_PATH", "config/listing_hub.yaml"), "path to the YAML config")
		withBOM    = flag.Bool("bom", true, "prepend a UTF-8 BOM for spreadsheet apps")
	)
	flag.Parse()

	appConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", *configPath, err)
		appConfig = config.DefaultConfig()
	}

	listings, err := loadListings(appConfig)
	if err != nil {
		log.Fatalf("Export: failed to load listings: %v", err)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Export: failed to create %s: %v", *outPath, err)
	}
	defer f.Close()

	if *withBOM {
		if _, err := f.WriteString("\ufeff"); err != nil {
			log.Fatalf("Export: failed to write BOM: %v", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(importer.ExportHeader()); err != nil {
		log.Fatalf("Export: failed to write header: %v", err)
	}
	for i := range listings {
		if err := w.Write(importer.ExportRow(&listings[i])); err != nil {
			log.Fatalf("Export: failed to write row for %s: %v", listings[i].PropertyNumber, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Export: failed to flush output: %v", err)
	}

	log.Printf("Export: wrote %d listings to %s", len(listings), *outPath)
}

func loadListings(appConfig *config.Config) ([]models.Listing, error) {
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
			return nil, err
		}
		defer gormDB.Close()
		return gormDB.GetActiveListings()
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
		return nil, err
	}
	defer db.Close()
	return db.GetActiveListings()
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
