package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration. DBDriver is "postgres" or "sqlite"; DatabaseURL
	// wins over the individual fields when set.
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Meal photo storage
	S3BucketName string
	AWSRegion    string
	PhotoURLTTL  time.Duration

	// Vision and recommendation providers
	OpenAIAPIKey       string
	OpenAIModel        string
	GeminiAPIKey       string
	GeminiModel        string
	GoogleVisionAPIKey string

	// Food database
	OpenFoodFactsURL string

	// Fitbit OAuth application
	FitbitClientID     string
	FitbitClientSecret string
	FitbitRedirectURL  string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	// Load configuration based on environment
	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadSharedConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig reads environment variables only.
func loadCIConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBName = getEnv("DB_NAME", "platewise")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")

	// CI secrets come straight from the runner environment
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
}

// loadDevConfig reads environment variables, falling back to Docker secrets
// and then to local defaults.
func loadDevConfig(cfg *Config) {
	cfg.ServerPort = lookup("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = lookup("SERVER_HOST", "server_host", "localhost")
	cfg.DBDriver = lookup("DB_DRIVER", "db_driver", "postgres")
	cfg.DatabaseURL = lookup("DATABASE_URL", "database_url", "")
	cfg.DBHost = lookup("DB_HOST", "db_host", "localhost")
	cfg.DBPort = lookup("DB_PORT", "db_port", "5432")
	cfg.DBUser = lookup("DB_USER", "db_user", "postgres")
	cfg.DBPassword = lookup("DB_PASSWORD", "db_password", "postgres")
	cfg.DBName = lookup("DB_NAME", "db_name", "platewise")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "db_ssl_mode", "disable")
	cfg.RedisHost = lookup("REDIS_HOST", "redis_host", "localhost")
	cfg.RedisPort = lookup("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = lookup("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = lookup("REDIS_URL", "redis_url", "")
	cfg.JWTSecret = lookup("JWT_SECRET", "jwt_secret", "development-jwt-secret")
}

// loadProdConfig prefers Docker secrets and never supplies defaults for
// credentials.
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = secretOrEnv("server_port", "SERVER_PORT", "8080")
	cfg.ServerHost = secretOrEnv("server_host", "SERVER_HOST", "0.0.0.0")
	cfg.DBDriver = secretOrEnv("db_driver", "DB_DRIVER", "postgres")
	cfg.DatabaseURL = secretOrEnv("database_url", "DATABASE_URL", "")
	cfg.DBHost = secretOrEnv("db_host", "DB_HOST", "")
	cfg.DBPort = secretOrEnv("db_port", "DB_PORT", "5432")
	cfg.DBUser = secretOrEnv("db_user", "DB_USER", "")
	cfg.DBPassword = secretOrEnv("db_password", "DB_PASSWORD", "")
	cfg.DBName = secretOrEnv("db_name", "DB_NAME", "")
	cfg.DBSSLMode = secretOrEnv("db_ssl_mode", "DB_SSL_MODE", "require")
	cfg.RedisHost = secretOrEnv("redis_host", "REDIS_HOST", "")
	cfg.RedisPort = secretOrEnv("redis_port", "REDIS_PORT", "6379")
	cfg.RedisPassword = secretOrEnv("redis_password", "REDIS_PASSWORD", "")
	cfg.RedisURL = secretOrEnv("redis_url", "REDIS_URL", "")
	cfg.JWTSecret = secretOrEnv("jwt_secret", "JWT_SECRET", "")
}

// loadSharedConfig fills settings that are read the same way everywhere.
func loadSharedConfig(cfg *Config) error {
	var err error

	cfg.SQLitePath = getEnv("SQLITE_PATH", "platewise.db")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.PhotoURLTTL, err = time.ParseDuration(getEnv("PHOTO_URL_TTL", "1h")); err != nil {
		return fmt.Errorf("invalid PHOTO_URL_TTL: %w", err)
	}

	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")

	if cfg.OpenAIAPIKey, err = apiKey("OPENAI_API_KEY"); err != nil {
		return err
	}
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	if cfg.GeminiAPIKey, err = apiKey("GEMINI_API_KEY"); err != nil {
		return err
	}
	cfg.GeminiModel = getEnv("GEMINI_MODEL", "gemini-2.0-flash")
	if cfg.GoogleVisionAPIKey, err = apiKey("GOOGLE_VISION_API_KEY"); err != nil {
		return err
	}

	cfg.OpenFoodFactsURL = getEnv("OPENFOODFACTS_URL", "https://world.openfoodfacts.org")

	cfg.FitbitClientID = os.Getenv("FITBIT_CLIENT_ID")
	if cfg.FitbitClientSecret, err = apiKey("FITBIT_CLIENT_SECRET"); err != nil {
		return err
	}
	cfg.FitbitRedirectURL = os.Getenv("FITBIT_REDIRECT_URI")

	return nil
}

// apiKey reads NAME, or the file named by NAME_FILE. Both unset is not an
// error: the feature behind the key is simply disabled.
func apiKey(name string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	path := os.Getenv(name + "_FILE")
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s_FILE: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func lookup(envKey, secretName, def string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return def
}

func secretOrEnv(secretName, envKey, def string) string {
	if v := readSecret(secretName); v != "" {
		return v
	}
	return getEnv(envKey, def)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

// PostgresDSN renders the connection string for the postgres drivers.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
