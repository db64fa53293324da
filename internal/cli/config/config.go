package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the docbridge configuration
type Config struct {
	Catalog string       `mapstructure:"catalog"`
	Log     LogConfig    `mapstructure:"log"`
	Decode  DecodeConfig `mapstructure:"decode"`
	Store   StoreConfig  `mapstructure:"store"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DecodeConfig represents converter configuration
type DecodeConfig struct {
	CoercionPolicy string `mapstructure:"coercion_policy"`
}

// StoreConfig represents document store configuration
type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	DSN    string      `mapstructure:"dsn"`
	Table  string      `mapstructure:"table"`
	Prefix string      `mapstructure:"prefix"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var validDrivers = []string{"memory", "redis", "postgres", "sqlite3"}

// Load loads the configuration from docbridge.yml or docbridge.yaml in dir
// (the current directory when empty). Environment variables prefixed with
// DOCBRIDGE_ override file values, e.g. DOCBRIDGE_STORE_DRIVER.
func Load(dir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("catalog", "catalog.yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("decode.coercion_policy", "fail")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table", "documents")
	v.SetDefault("store.prefix", "docbridge:")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)

	if dir == "" {
		dir = "."
	}
	v.SetConfigName("docbridge")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Enable environment variable support
	v.SetEnvPrefix("DOCBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	valid := false
	for _, d := range validDrivers {
		if cfg.Store.Driver == d {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("store.driver must be one of %s, got: %s",
			strings.Join(validDrivers, ", "), cfg.Store.Driver)
	}

	if (cfg.Store.Driver == "postgres" || cfg.Store.Driver == "sqlite3") && cfg.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for driver %s", cfg.Store.Driver)
	}

	switch cfg.Decode.CoercionPolicy {
	case "fail", "skip":
	default:
		return fmt.Errorf("decode.coercion_policy must be fail or skip, got: %s", cfg.Decode.CoercionPolicy)
	}

	return nil
}
