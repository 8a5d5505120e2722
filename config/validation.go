package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type requirement struct {
	field string
	value func(*Config) string
}

var (
	jwtSecret  = requirement{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }}
	dbPassword = requirement{"DB_PASSWORD", func(c *Config) string {
		if c.DBDriver == "sqlite" || c.DatabaseURL != "" {
			return "n/a"
		}
		return c.DBPassword
	}}
	dbHost = requirement{"DB_HOST", func(c *Config) string {
		if c.DBDriver == "sqlite" || c.DatabaseURL != "" {
			return "n/a"
		}
		return c.DBHost
	}}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Development: {},
		Test:        {},
		CI:          {jwtSecret, dbPassword},
		Production:  {jwtSecret, dbPassword, dbHost},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	for _, req := range requirements[cfg.Environment] {
		if req.value(cfg) == "" {
			errs = append(errs, ValidationError{Field: req.field, Message: fmt.Sprintf("required in %s environment", cfg.Environment)})
		}
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must be a number"})
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.Environment == Production && cfg.DBDriver == "sqlite" {
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in production"})
	}

	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"})
	}

	return errors.Join(errs...)
}
