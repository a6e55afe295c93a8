// Package config loads the process configuration from the environment.
// Every problem is collected so a misconfigured deployment reports all of
// them at once.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

type DatabaseConfig struct {
	URL      string
	MaxConns int32
}

type SessionConfig struct {
	// Secrets is SESSION_SECRET split on commas: newest first.
	Secrets []string
	Secure  bool
}

type PasswordConfig struct {
	Hasher     string
	BcryptCost int
}

type CacheConfig struct {
	// TTL of zero, the default, disables the user cache.
	TTL time.Duration
}

type ServerConfig struct {
	Port     string
	LogLevel slog.Level
}

type AppConfig struct {
	Env      string
	Database DatabaseConfig
	Session  SessionConfig
	Password PasswordConfig
	Cache    CacheConfig
	Server   ServerConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// LoadDotEnv reads .env files if present. A missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func getRequiredEnv(key string, problems *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		*problems = append(*problems, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, problems *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected integer, got '%s'", key, valueStr))
		return defaultValue
	}
	return value
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, problems *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: expected duration string, got '%s'", key, valueStr))
		return defaultValue
	}
	return value
}

func splitSecrets(raw string) []string {
	var secrets []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// Load reads and validates the environment.
func Load() (*AppConfig, error) {
	var problems []string

	cfg := &AppConfig{
		Env: getOptionalEnv("APP_ENV", EnvDevelopment),
	}

	cfg.Session.Secrets = splitSecrets(getRequiredEnv("SESSION_SECRET", &problems))
	cfg.Session.Secure = cfg.IsProduction()

	cfg.Database.URL = getRequiredEnv("DATABASE_URL", &problems)
	maxConns := getOptionalEnvInt("DB_MAX_CONNS", 10, &problems)
	if maxConns < 1 || maxConns > 1000 {
		problems = append(problems, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 1000, got %d", maxConns))
		maxConns = 10
	}
	cfg.Database.MaxConns = int32(maxConns)

	cfg.Password.Hasher = strings.ToLower(getOptionalEnv("PASSWORD_HASHER", HasherBcrypt))
	if cfg.Password.Hasher != HasherBcrypt && cfg.Password.Hasher != HasherArgon2 {
		problems = append(problems, fmt.Sprintf("PASSWORD_HASHER must be %s or %s, got '%s'", HasherBcrypt, HasherArgon2, cfg.Password.Hasher))
	}
	cfg.Password.BcryptCost = getOptionalEnvInt("BCRYPT_COST", 10, &problems)
	if cfg.Password.BcryptCost < 4 || cfg.Password.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("BCRYPT_COST must be between 4 and 31, got %d", cfg.Password.BcryptCost))
	}

	cfg.Cache.TTL = getOptionalEnvDuration("USER_CACHE_TTL", 0, &problems)
	if cfg.Cache.TTL < 0 {
		problems = append(problems, "USER_CACHE_TTL must not be negative")
	}

	cfg.Server.Port = getOptionalEnv("PORT", "3000")
	if err := cfg.Server.LogLevel.UnmarshalText([]byte(getOptionalEnv("LOG_LEVEL", "info"))); err != nil {
		problems = append(problems, fmt.Sprintf("invalid value for LOG_LEVEL: %v", err))
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(problems, "\n- "))
	}
	return cfg, nil
}
