package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Import    ImportConfig    `yaml:"import"`
	Slack     SlackConfig     `yaml:"slack"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Port         string   `yaml:"port"`
	AdminToken   string   `yaml:"admin_token"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// ImportConfig contains CSV import pipeline settings
type ImportConfig struct {
	SourcePath       string `yaml:"source_path"`
	BatchSize        int    `yaml:"batch_size"`
	BatchDelayMs     int    `yaml:"batch_delay_ms"`
	StatusPolicy     string `yaml:"status_policy"`   // lenient | strict
	DatePolicy       string `yaml:"date_policy"`     // clamp | null | reject
	ReseedFromStore  bool   `yaml:"reseed_from_store"`
	ErrorSampleLimit int    `yaml:"error_sample_limit"`
	ReportPath       string `yaml:"report_path"`
}

// SlackConfig contains outbound notification settings
type SlackConfig struct {
	WebhookURL     string `yaml:"webhook_url"`
	Enabled        bool   `yaml:"enabled"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxAttempts    int    `yaml:"max_attempts"`
}

// CleanupConfig contains soft-delete purge settings
type CleanupConfig struct {
	RetentionDays    int  `yaml:"retention_days"`
	MaxDeletionCount int  `yaml:"max_deletion_count"`
	DeleteFromSearch bool `yaml:"delete_from_search"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// SchedulerConfig contains scheduled maintenance settings
type SchedulerConfig struct {
	DailyRunEnabled bool   `yaml:"daily_run_enabled"`
	DailyRunTime    string `yaml:"daily_run_time"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8085",
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Import: ImportConfig{
			BatchSize:        50,
			BatchDelayMs:     150,
			StatusPolicy:     "lenient",
			DatePolicy:       "clamp",
			ReseedFromStore:  false,
			ErrorSampleLimit: 10,
			ReportPath:       "failed_rows.json",
		},
		Slack: SlackConfig{
			Enabled:        false,
			TimeoutSeconds: 5,
			MaxAttempts:    3,
		},
		Cleanup: CleanupConfig{
			RetentionDays:    90,
			MaxDeletionCount: 10000,
			DeleteFromSearch: true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			RequestsPerHour:   1800,
			RequestsPerDay:    10000,
		},
		Scheduler: SchedulerConfig{
			DailyRunEnabled: false,
			DailyRunTime:    "03:00",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	// Read file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// GetBatchDelay returns the inter-batch delay as a duration
func (c *ImportConfig) GetBatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

// GetTimeout returns the webhook timeout as a duration
func (c *SlackConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
