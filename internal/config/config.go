// file: internal/config/config.go
// version: 1.0.0
// guid: f9e3b6c7-2d8a-4f0b-4c5d-7e8f9a0b1c2d

package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Host         string
	Port         string
	Mode         string // "development" or "production"
	DatabasePath string
	DatabaseType string // "pebble" (default) or "sqlite"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)
	BlobDir      string
	BaseURL      string

	CORSAllowOrigin string

	JSONBodyLimitBytes   int64
	UploadBodyLimitBytes int64

	NoteCacheTTL        time.Duration
	CollectionCacheTTL  time.Duration
	CacheSweepInterval  time.Duration
	LimitSweepInterval  time.Duration
	PerUserRateLimiting bool
}

var AppConfig Config

// InitConfig initializes the application configuration from viper.
func InitConfig() {
	// Set defaults
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", "8080")
	viper.SetDefault("mode", "development")
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("cors_allow_origin", "*")
	viper.SetDefault("json_body_limit_bytes", int64(1<<20))      // 1MB
	viper.SetDefault("upload_body_limit_bytes", int64(25<<20))   // 25MB
	viper.SetDefault("note_cache_ttl", 5*time.Minute)
	viper.SetDefault("collection_cache_ttl", 10*time.Minute)
	viper.SetDefault("cache_sweep_interval", time.Minute)
	viper.SetDefault("limit_sweep_interval", time.Minute)
	viper.SetDefault("per_user_rate_limiting", true)

	AppConfig = Config{
		Host:                 viper.GetString("host"),
		Port:                 viper.GetString("port"),
		Mode:                 viper.GetString("mode"),
		DatabasePath:         viper.GetString("database_path"),
		DatabaseType:         viper.GetString("database_type"),
		EnableSQLite:         viper.GetBool("enable_sqlite3_i_know_the_risks"),
		BlobDir:              viper.GetString("blob_dir"),
		BaseURL:              viper.GetString("base_url"),
		CORSAllowOrigin:      viper.GetString("cors_allow_origin"),
		JSONBodyLimitBytes:   viper.GetInt64("json_body_limit_bytes"),
		UploadBodyLimitBytes: viper.GetInt64("upload_body_limit_bytes"),
		NoteCacheTTL:         viper.GetDuration("note_cache_ttl"),
		CollectionCacheTTL:   viper.GetDuration("collection_cache_ttl"),
		CacheSweepInterval:   viper.GetDuration("cache_sweep_interval"),
		LimitSweepInterval:   viper.GetDuration("limit_sweep_interval"),
		PerUserRateLimiting:  viper.GetBool("per_user_rate_limiting"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
	if AppConfig.Mode != "production" {
		AppConfig.Mode = "development"
	}
}

// IsProduction reports whether the process runs in production mode.
// Development mode prefixes rate-limit keys and exposes raw internal
// error messages; production never does either.
func (c Config) IsProduction() bool {
	return c.Mode == "production"
}
