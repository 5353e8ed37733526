package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Storage backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// backendRequirements lists the fields each storage backend cannot run without
var backendRequirements = map[string][]string{
	BackendMemory:   {},
	BackendRedis:    {"REDIS_HOST|REDIS_URL"},
	BackendSQLite:   {"SQLITE_PATH"},
	BackendPostgres: {"DB_HOST", "DB_NAME", "DB_USER"},
	BackendS3:       {"S3_BUCKET_NAME"},
}

// ValidateConfig checks the configuration for the given environment and
// returns every problem found
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []error

	required, ok := backendRequirements[cfg.StorageBackend]
	if !ok {
		errs = append(errs, ValidationError{
			Field:   "STORAGE_BACKEND",
			Message: fmt.Sprintf("unknown backend %q", cfg.StorageBackend),
		})
	}
	for _, name := range required {
		if !cfg.hasAny(name) {
			errs = append(errs, ValidationError{Field: name, Message: "required for " + cfg.StorageBackend + " storage"})
		}
	}

	if env == Production && cfg.StorageBackend == BackendMemory {
		errs = append(errs, ValidationError{Field: "STORAGE_BACKEND", Message: "memory storage does not survive restarts"})
	}

	if _, err := cfg.Location(); err != nil {
		errs = append(errs, ValidationError{Field: "TRACKER_TIMEZONE", Message: err.Error()})
	}
	if cfg.RetentionDays <= 0 {
		errs = append(errs, ValidationError{Field: "RETENTION_DAYS", Message: "must be positive"})
	}
	if cfg.InferenceTimeout < 0 || (cfg.InferenceTimeout > 0 && cfg.InferenceTimeout < time.Second) {
		errs = append(errs, ValidationError{Field: "INFERENCE_TIMEOUT", Message: "must be at least 1s"})
	}
	if cfg.InferenceRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "INFERENCE_RATE_LIMIT", Message: "must not be negative"})
	}
	if cfg.InferenceRateLimit > 0 && cfg.InferenceRateWindow <= 0 {
		errs = append(errs, ValidationError{Field: "INFERENCE_RATE_WINDOW", Message: "must be positive when rate limiting is enabled"})
	}
	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must not be empty"})
	}

	return errors.Join(errs...)
}

// ValidateInference checks the settings needed to reach the inference service
func ValidateInference(cfg *Config) error {
	if cfg.GeminiAPIKey == "" {
		return ValidationError{Field: "GEMINI_API_KEY", Message: "GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set"}
	}
	if cfg.GeminiModel == "" {
		return ValidationError{Field: "GEMINI_MODEL", Message: "must not be empty"}
	}
	return nil
}

// hasAny reports whether at least one of the "|"-separated fields is set
func (c *Config) hasAny(names string) bool {
	for _, name := range strings.Split(names, "|") {
		if c.field(name) != "" {
			return true
		}
	}
	return false
}

func (c *Config) field(name string) string {
	switch name {
	case "REDIS_HOST":
		return c.RedisHost
	case "REDIS_URL":
		return c.RedisURL
	case "SQLITE_PATH":
		return c.SQLitePath
	case "DB_HOST":
		return c.DBHost
	case "DB_NAME":
		return c.DBName
	case "DB_USER":
		return c.DBUser
	case "S3_BUCKET_NAME":
		return c.S3Bucket
	}
	return ""
}
