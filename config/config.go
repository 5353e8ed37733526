package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost  string `yaml:"server_host"  env:"SERVER_HOST"  env-default:"0.0.0.0"`
	ServerPort  string `yaml:"server_port"  env:"SERVER_PORT"  env-default:"8080"`
	CORSOrigins string `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`

	// Storage configuration
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"sqlite"`
	SQLitePath     string `yaml:"sqlite_path"     env:"SQLITE_PATH"     env-default:"nutrilog.db"`

	// Database configuration
	DBHost     string `yaml:"db_host"     env:"DB_HOST"     env-default:"localhost"`
	DBPort     string `yaml:"db_port"     env:"DB_PORT"     env-default:"5432"`
	DBUser     string `yaml:"db_user"     env:"DB_USER"     env-default:"postgres"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBName     string `yaml:"db_name"     env:"DB_NAME"     env-default:"nutrilog"`
	DBSSLMode  string `yaml:"db_ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`

	// Redis configuration
	RedisURL       string `yaml:"redis_url"        env:"REDIS_URL"`
	RedisHost      string `yaml:"redis_host"       env:"REDIS_HOST" env-default:"localhost"`
	RedisPort      string `yaml:"redis_port"       env:"REDIS_PORT" env-default:"6379"`
	RedisPassword  string `yaml:"redis_password"   env:"REDIS_PASSWORD"`
	RedisDB        int    `yaml:"redis_db"         env:"REDIS_DB"   env-default:"0"`
	RedisKeyPrefix string `yaml:"redis_key_prefix" env:"REDIS_KEY_PREFIX" env-default:"nutrilog:"`

	// S3 configuration
	S3Bucket  string `yaml:"s3_bucket"  env:"S3_BUCKET_NAME"`
	S3Prefix  string `yaml:"s3_prefix"  env:"S3_PREFIX" env-default:"nutrilog/"`
	AWSRegion string `yaml:"aws_region" env:"AWS_REGION"`

	// Inference configuration
	GeminiAPIKey     string        `yaml:"gemini_api_key"      env:"GEMINI_API_KEY"`
	GeminiAPIKeyFile string        `yaml:"gemini_api_key_file" env:"GEMINI_API_KEY_FILE"`
	GeminiModel      string        `yaml:"gemini_model"        env:"GEMINI_MODEL"      env-default:"gemini-2.5-flash"`
	InferenceTimeout time.Duration `yaml:"inference_timeout"   env:"INFERENCE_TIMEOUT" env-default:"30s"`

	// Rate limiting of inference routes; 0 disables it. Counters live in Redis.
	InferenceRateLimit  int           `yaml:"inference_rate_limit"  env:"INFERENCE_RATE_LIMIT"  env-default:"0"`
	InferenceRateWindow time.Duration `yaml:"inference_rate_window" env:"INFERENCE_RATE_WINDOW" env-default:"1h"`

	// Tracker configuration
	Timezone      string `yaml:"timezone"       env:"TRACKER_TIMEZONE" env-default:"Local"`
	RetentionDays int    `yaml:"retention_days" env:"RETENTION_DAYS"   env-default:"7"`

	// Logging configuration
	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"console"`
}

// LoadConfig creates a new Config instance from the config file, environment
// variables and, outside CI, docker secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	if err := readConfig(cfg); err != nil {
		return nil, err
	}

	// CI only reads the environment; everywhere else secrets fill the gaps
	switch env {
	case CI:
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := resolveAPIKey(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// readConfig loads the YAML file at CONFIG_PATH (or ./config.yaml when it
// exists) and then the environment. Environment values win.
func readConfig(cfg *Config) error {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	} else if explicit {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// loadSecrets overlays docker secrets onto fields the environment left empty
func loadSecrets(cfg *Config) {
	overlay := map[string]*string{
		"gemini_api_key": &cfg.GeminiAPIKey,
		"db_password":    &cfg.DBPassword,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
	}
	for name, field := range overlay {
		if *field != "" {
			continue
		}
		*field = readSecret(name)
	}
}

// resolveAPIKey reads the Gemini key from GEMINI_API_KEY_FILE when the key
// itself is not set
func resolveAPIKey(cfg *Config) error {
	if cfg.GeminiAPIKey != "" || cfg.GeminiAPIKeyFile == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.GeminiAPIKeyFile)
	if err != nil {
		return fmt.Errorf("failed to read API key file: %w", err)
	}
	cfg.GeminiAPIKey = strings.TrimSpace(string(data))
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("API key file is empty")
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Location returns the timezone calendar days are counted in
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// PostgresDSN builds the connection string for the postgres backend
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// ServerAddr returns the listen address of the HTTP shell
func (c *Config) ServerAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}
