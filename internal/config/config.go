package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	SitesFile      string `mapstructure:"sites_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	OutputDir      string `mapstructure:"output_dir"`

	Workers                int           `mapstructure:"workers"`
	PageTimeoutSeconds     int64         `mapstructure:"page_timeout_seconds"`
	CategoryTimeoutSeconds int64         `mapstructure:"category_timeout_seconds"`
	PageTimeout            time.Duration `mapstructure:"-"`
	CategoryTimeout        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "khobor-archiver")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sites_file", "./configs/sites.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("output_dir", "./data")
	v.SetDefault("workers", 4)
	v.SetDefault("page_timeout_seconds", 10)
	v.SetDefault("category_timeout_seconds", 5)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/runs.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates numeric settings and derives the duration fields.
func (cfg *Config) finalize() error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("invalid workers (must be positive)")
	}
	if cfg.PageTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid page_timeout_seconds (must be positive seconds)")
	}
	if cfg.CategoryTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid category_timeout_seconds (must be positive seconds)")
	}
	cfg.PageTimeout = time.Duration(cfg.PageTimeoutSeconds) * time.Second
	cfg.CategoryTimeout = time.Duration(cfg.CategoryTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
