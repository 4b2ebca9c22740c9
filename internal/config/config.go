package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DevJWTSecret is only accepted outside production.
	DevJWTSecret      = "blogapi_development_jwt_secret_change_me"
	minJWTSecretBytes = 32
)

// Config holds everything the API process reads from its environment.
type Config struct {
	Port       string
	Env        string
	JWTSecret  []byte
	JWTTTL     time.Duration
	MonitorKey string
	Database   DatabaseConfig
}

// DatabaseConfig describes how to reach PostgreSQL and size the pool.
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DSN returns DATABASE_URL when set, otherwise a key/value connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Redacted is safe to log.
func (d DatabaseConfig) Redacted() string {
	if d.URL != "" {
		return "DATABASE_URL"
	}
	return fmt.Sprintf("host=%s port=%s user=%s db=%s sslmode=%s", d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from environment variables.
func Load(log logrus.FieldLogger) (*Config, error) {
	cfg := &Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		Env:        strings.ToLower(getEnvOrDefault("APP_ENV", "development")),
		JWTTTL:     time.Duration(getIntEnvOrDefault(log, "JWT_TTL_HOURS", 1)) * time.Hour,
		MonitorKey: strings.TrimSpace(os.Getenv("MONITORING_API_KEY")),
		Database: DatabaseConfig{
			URL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "password"),
			Name:            getEnvOrDefault("DB_NAME", "blog"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnvOrDefault(log, "DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnvOrDefault(log, "DB_MAX_IDLE_CONNS", 25),
			ConnMaxIdleTime: time.Duration(getIntEnvOrDefault(log, "DB_CONN_MAX_IDLE_MINUTES", 5)) * time.Minute,
			ConnMaxLifetime: time.Duration(getIntEnvOrDefault(log, "DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		},
	}

	secret, err := resolveJWTSecret(log, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	cfg.JWTSecret = secret

	return cfg, nil
}

func resolveJWTSecret(log logrus.FieldLogger, production bool) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if raw == "" {
		if production {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		log.Warn("JWT_SECRET is not set, using the development secret")
		return []byte(DevJWTSecret), nil
	}
	if len(raw) < minJWTSecretBytes {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretBytes)
	}
	return []byte(raw), nil
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(log logrus.FieldLogger, key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Warnf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}

	return value
}
