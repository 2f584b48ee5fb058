package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Backup    BackupConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// DatabaseConfig describes the embedded SQLite store. The desktop shell
// points POS_DATA_DIR at its per-app data directory; the database file and
// its WAL/shared-memory side files all live there.
type DatabaseConfig struct {
	Dir           string
	File          string
	BusyTimeoutMS int
}

type BackupConfig struct {
	Dir             string
	IntervalMinutes int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "meateat-pos-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "7070")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("POS_DATA_DIR", "./db")
	viper.SetDefault("POS_DB_FILE", "pos.db")
	viper.SetDefault("DB_BUSY_TIMEOUT_MS", 10000)
	viper.SetDefault("BACKUP_DIR", "./backups")
	viper.SetDefault("BACKUP_INTERVAL_MINUTES", 0)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:1420")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Dir:           viper.GetString("POS_DATA_DIR"),
			File:          viper.GetString("POS_DB_FILE"),
			BusyTimeoutMS: viper.GetInt("DB_BUSY_TIMEOUT_MS"),
		},
		Backup: BackupConfig{
			Dir:             viper.GetString("BACKUP_DIR"),
			IntervalMinutes: viper.GetInt("BACKUP_INTERVAL_MINUTES"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}
}

// Path returns the location of the primary database file.
func (c *DatabaseConfig) Path() string {
	return filepath.Join(c.Dir, c.File)
}

// DSN builds the SQLite connection string. WAL mode gives
// single-writer/multi-reader semantics; the busy timeout makes bursts of
// near-simultaneous writers queue instead of failing with SQLITE_BUSY.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on&_synchronous=NORMAL",
		c.Path(), c.BusyTimeoutMS,
	)
}
