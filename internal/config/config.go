package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	// Servers
	GRPCPort string
	HTTPPort string
	APIToken string

	// Storage
	DataBackend string
	DBConnStr   string

	// Logging
	LogLevel string

	ShutdownTimeout time.Duration
}

// LoadDotEnv reads variables from the given .env files (default ".env") into the
// process environment. Variables that are already set win; missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() *Config {
	cfg := &Config{
		GRPCPort: getEnv("GRPC_PORT", "8080"),
		HTTPPort: getEnv("HTTP_PORT", "9090"),
		APIToken: getEnv("API_TOKEN", "dev-token"),

		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendMemory)),
		DBConnStr:   getEnv("DB_CONN_STR", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DBConnStr == "" && cfg.DataBackend == BackendPostgres {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "splitflow"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if msg := validatePort("gRPC", c.GRPCPort); msg != "" {
		errors = append(errors, msg)
	}
	if msg := validatePort("HTTP", c.HTTPPort); msg != "" {
		errors = append(errors, msg)
	}
	if c.GRPCPort == c.HTTPPort {
		errors = append(errors, fmt.Sprintf("gRPC and HTTP ports must differ (both are %s)", c.GRPCPort))
	}

	if c.APIToken == "" {
		errors = append(errors, "API token cannot be empty")
	}

	switch c.DataBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBConnStr == "" {
			errors = append(errors, "database connection string is required when using postgres backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendMemory, BackendPostgres))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func validatePort(name, value string) string {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Sprintf("invalid %s port '%s': must be a number", name, value)
	}
	if port < 1 || port > 65535 {
		return fmt.Sprintf("invalid %s port %d: must be between 1 and 65535", name, port)
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
