package config

import (
	"os"
	"strconv"
	"strings"

	"switchback/domain/metric"
	"switchback/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Output OutputConfig
	Fares  metric.Fares
	Server ServerConfig
	Log    LogConfig
}

// DataConfig holds the input dataset location
type DataConfig struct {
	File string
}

// OutputConfig controls where and what the renderers write
type OutputConfig struct {
	Dir           string
	ChartsEnabled bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads an optional .env file, then configuration from the environment,
// and validates it. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, errors.Wrap(err, "failed to load .env")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	fares, err := loadFares()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load fare configuration")
	}

	config := &Config{
		Data: DataConfig{
			File: getEnvOrDefault("SWITCHBACK_DATA_FILE", "data/switchbacks.csv"),
		},
		Output: OutputConfig{
			Dir:           getEnvOrDefault("SWITCHBACK_OUTPUT_DIR", "."),
			ChartsEnabled: getEnvBoolOrDefault("CHARTS_ENABLED", true),
		},
		Fares: fares,
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks values that flags may also have overridden
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.File) == "" {
		return errors.ConfigInvalid("data file is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if c.Fares.Pool <= 0 || c.Fares.Express <= 0 {
		return errors.ConfigInvalid("fares must be positive")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid("PORT must be a valid TCP port")
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func loadFares() (metric.Fares, error) {
	defaults := metric.DefaultFares()
	pool, err := getEnvFloat("POOL_FARE", defaults.Pool)
	if err != nil {
		return metric.Fares{}, err
	}
	express, err := getEnvFloat("EXPRESS_FARE", defaults.Express)
	if err != nil {
		return metric.Fares{}, err
	}
	return metric.Fares{Pool: pool, Express: express}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat accepts a decimal comma; malformed values are a config error
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number")
	}
	return f, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
