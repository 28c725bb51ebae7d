package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the base yaml config, merges the environment-specific
// overlay, applies env-var overrides and defaults, and validates the
// result.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like REMOTE_SESSION_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// overrideEmptyConfig fills secrets directly from the environment when the
// yaml left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Remote.SessionToken == "" {
		if val := os.Getenv("REMOTE_SESSION_TOKEN"); val != "" {
			cfg.Remote.SessionToken = val
		}
	}
	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Remote.Timeout == 0 {
		cfg.Remote.Timeout = 30000
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300000 // 5 minutes
	}

	if cfg.Fetcher.BatchSize == 0 {
		cfg.Fetcher.BatchSize = 3
	}
	if cfg.Fetcher.BatchDelay == 0 {
		cfg.Fetcher.BatchDelay = 300
	}

	if cfg.Revenue.TierDate == "" {
		cfg.Revenue.TierDate = "2025-10-01"
	}
	if cfg.Revenue.TierThreshold == 0 {
		cfg.Revenue.TierThreshold = 10
	}
	if cfg.Revenue.BaseSalaryRate == 0 {
		cfg.Revenue.BaseSalaryRate = 200
	}
	if cfg.Revenue.TierSalaryRate == 0 {
		cfg.Revenue.TierSalaryRate = 300
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	if cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required")
	}
	if cfg.Fetcher.BatchSize <= 0 {
		return fmt.Errorf("fetcher.batch_size must be positive")
	}
	if _, err := time.Parse("2006-01-02", cfg.Revenue.TierDate); err != nil {
		return fmt.Errorf("revenue.tier_date must be YYYY-MM-DD: %w", err)
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
