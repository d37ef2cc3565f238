// Package config loads route network settings from the environment.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/meikuraledutech/routenet"
	"github.com/sirupsen/logrus"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: field %q: %s", e.Field, e.Message)
}

// Config holds runtime configuration for the example and server programs.
type Config struct {
	DatabaseURL string
	// Schema is used by the example program only; there is no default.
	Schema    string
	Tolerance float64

	LogLevel logrus.Level
	LogFile  string // empty logs to stdout

	ServerAddr string
}

// Load reads .env (if present) and then the process environment.
// Returns a ConfigError for any missing or invalid value.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, &ConfigError{Field: ".env", Message: err.Error()}
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogFile:     os.Getenv("LOG_FILE"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
	}
	if cfg.DatabaseURL == "" {
		return nil, &ConfigError{Field: "DATABASE_URL", Message: "required but not set"}
	}

	if v := os.Getenv("ROUTENET_SCHEMA"); v != "" {
		schema, err := routenet.NormalizeSchema(v)
		if err != nil {
			return nil, &ConfigError{Field: "ROUTENET_SCHEMA", Message: err.Error()}
		}
		cfg.Schema = schema
	}

	cfg.Tolerance = routenet.DefaultTolerance
	if v := os.Getenv("ROUTENET_TOLERANCE"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			return nil, &ConfigError{Field: "ROUTENET_TOLERANCE", Message: fmt.Sprintf("invalid tolerance %q", v)}
		}
		cfg.Tolerance = tol
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, &ConfigError{Field: "LOG_LEVEL", Message: err.Error()}
	}
	cfg.LogLevel = level

	return cfg, nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}
