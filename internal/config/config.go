// Package config loads TypeRank configuration from flags, environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Maintenance MaintenanceConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds record store configuration.
type DatabaseConfig struct {
	// Path to the SQLite database file.
	Path string
}

// AuthConfig holds identity token configuration.
type AuthConfig struct {
	// KeyPath is where the PASETO v4 symmetric key is stored (hex encoded).
	KeyPath             string
	AccessTokenDuration time.Duration
}

// RateLimitConfig limits attempt submissions per client.
type RateLimitConfig struct {
	SubmitPerMinute int
	SubmitBurst     int
}

// MaintenanceConfig controls the periodic store maintenance job.
type MaintenanceConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Flag names shared by RegisterFlags and Load.
const (
	flagEnv             = "env"
	flagLogLevel        = "log-level"
	flagEnvFile         = "env-file"
	flagPort            = "port"
	flagReadTimeout     = "read-timeout"
	flagWriteTimeout    = "write-timeout"
	flagIdleTimeout     = "idle-timeout"
	flagAllowedOrigins  = "allowed-origins"
	flagDatabasePath    = "database-path"
	flagAuthKeyPath     = "auth-key-path"
	flagAccessTokenTTL  = "access-token-duration"
	flagSubmitPerMinute = "submit-per-minute"
	flagSubmitBurst     = "submit-burst"
	flagMaintenance     = "maintenance-enabled"
	flagMaintenanceIntv = "maintenance-interval"
)

// RegisterFlags declares every configuration flag on fs. Empty defaults mean
// "not set" so that environment variables and .env values can take over.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(flagEnv, "", "Environment (development, staging, production)")
	fs.String(flagLogLevel, "", "Log level (debug, info, warn, error)")
	fs.String(flagEnvFile, ".env", "Path to .env file")
	fs.String(flagPort, "", "Server port (default: 8080)")
	fs.String(flagReadTimeout, "", "HTTP read timeout (default: 15s)")
	fs.String(flagWriteTimeout, "", "HTTP write timeout (default: 15s)")
	fs.String(flagIdleTimeout, "", "HTTP idle timeout (default: 60s)")
	fs.String(flagAllowedOrigins, "", "Comma separated CORS origins (default: *)")
	fs.String(flagDatabasePath, "", "Path to the SQLite database (default: ~/TypeRank/typerank.db)")
	fs.String(flagAuthKeyPath, "", "Path to the token key file (default: next to the database)")
	fs.String(flagAccessTokenTTL, "", "Access token lifetime (default: 24h)")
	fs.String(flagSubmitPerMinute, "", "Attempt submissions allowed per client per minute (default: 30)")
	fs.String(flagSubmitBurst, "", "Attempt submission burst size (default: 10)")
	fs.String(flagMaintenance, "", "Run periodic store maintenance (default: true)")
	fs.String(flagMaintenanceIntv, "", "Store maintenance interval (default: 1h)")
}

// Load builds the configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
// fs may be nil, in which case only the environment and defaults are used.
func Load(fs *pflag.FlagSet) (*Config, error) {
	flagValue := func(name string) string {
		if fs == nil {
			return ""
		}
		v, err := fs.GetString(name)
		if err != nil {
			return ""
		}
		return v
	}

	envFile := flagValue(flagEnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	// Missing .env files are fine. godotenv never overrides variables already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flagValue(flagEnv), "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(flagValue(flagLogLevel), "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(flagValue(flagPort), "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(flagValue(flagAllowedOrigins), "ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(flagValue(flagDatabasePath), "DATABASE_PATH", ""),
		},
		Auth: AuthConfig{
			KeyPath: getConfigValue(flagValue(flagAuthKeyPath), "AUTH_KEY_PATH", ""),
		},
		RateLimit: RateLimitConfig{
			SubmitPerMinute: getIntConfigValue(flagValue(flagSubmitPerMinute), "SUBMIT_PER_MINUTE", 30),
			SubmitBurst:     getIntConfigValue(flagValue(flagSubmitBurst), "SUBMIT_BURST", 10),
		},
		Maintenance: MaintenanceConfig{
			Enabled: getBoolConfigValue(flagValue(flagMaintenance), "MAINTENANCE_ENABLED", true),
		},
	}

	durations := []struct {
		target *time.Duration
		flag   string
		env    string
		def    string
	}{
		{&cfg.Server.ReadTimeout, flagReadTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, flagWriteTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, flagIdleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Auth.AccessTokenDuration, flagAccessTokenTTL, "ACCESS_TOKEN_DURATION", "24h"},
		{&cfg.Maintenance.Interval, flagMaintenanceIntv, "MAINTENANCE_INTERVAL", "1h"},
	}
	for _, d := range durations {
		raw := getConfigValue(flagValue(d.flag), d.env, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.flag, raw, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}
	if c.Auth.KeyPath == "" {
		return errors.New("auth key path cannot be empty")
	}
	if c.Auth.AccessTokenDuration <= 0 {
		return errors.New("access token duration must be positive")
	}
	if c.RateLimit.SubmitPerMinute <= 0 || c.RateLimit.SubmitBurst <= 0 {
		return errors.New("submission rate limit and burst must be positive")
	}
	if c.Maintenance.Enabled && c.Maintenance.Interval < time.Minute {
		return fmt.Errorf("maintenance interval %s is shorter than one minute", c.Maintenance.Interval)
	}

	return nil
}

func (c *Config) expandPaths() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	c.Database.Path, err = expandPath(c.Database.Path, filepath.Join(home, "TypeRank", "typerank.db"))
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}

	c.Auth.KeyPath, err = expandPath(c.Auth.KeyPath, filepath.Join(filepath.Dir(c.Database.Path), "auth.key"))
	if err != nil {
		return fmt.Errorf("invalid auth key path: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute. Empty paths take defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		path = defaultPath
	}
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	raw := strings.ToLower(getConfigValue(flagValue, envKey, ""))
	if raw == "" {
		return defaultValue
	}
	return raw == "true" || raw == "1" || raw == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default. Unparsable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
