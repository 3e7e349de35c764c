package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	API         APIConfig
	Session     SessionConfig
	Redis       RedisConfig
	HTTP        HTTPConfig
	Mock        MockConfig
}

// APIConfig points at the remote auth/OTP/order server.
type APIConfig struct {
	BaseURL string        // API_BASE_URL, e.g. http://localhost:8080
	Timeout time.Duration // HTTP_TIMEOUT
}

type SessionConfig struct {
	Timeout       time.Duration // SESSION_TIMEOUT: wall-clock life of a verified session
	Store         string        // SESSION_STORE: memory or redis
	StoreTTL      time.Duration // SESSION_STORE_TTL: redis key expiry and idle browser-session pruning
	DefaultUserID int           // DEFAULT_USER_ID: sent with orders when login returns no user id
}

type RedisConfig struct {
	URL string // REDIS_URL, e.g. redis://localhost:6379/0
}

type HTTPConfig struct {
	AllowedOrigins    []string // CORS_ALLOWED_ORIGINS, comma separated
	AuthRatePerMinute int      // AUTH_RATE_PER_MINUTE: per-IP limit on /api/auth/*
}

// MockConfig is only read by cmd/mockbackend.
type MockConfig struct {
	Port      string // MOCK_PORT
	OTP       string // MOCK_OTP
	JWTSecret string // JWT_SECRET; empty means a random secret per run
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_STORE", StoreMemory)

	v.AutomaticEnv()

	// .env is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	httpTimeout, err := getDuration(v, "HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTimeout, err := getDuration(v, "SESSION_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	storeTTL, err := getDuration(v, "SESSION_STORE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	defaultUserID, err := getInt(v, "DEFAULT_USER_ID", 123)
	if err != nil {
		return nil, err
	}
	authRate, err := getInt(v, "AUTH_RATE_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper(v, "PORT", "3000"),
		Environment: getEnvOrViper(v, "ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper(v, "LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL: strings.TrimSuffix(strings.TrimSpace(getEnvOrViper(v, "API_BASE_URL", "http://localhost:8080")), "/"),
			Timeout: httpTimeout,
		},
		Session: SessionConfig{
			Timeout:       sessionTimeout,
			Store:         strings.ToLower(strings.TrimSpace(getEnvOrViper(v, "SESSION_STORE", StoreMemory))),
			StoreTTL:      storeTTL,
			DefaultUserID: defaultUserID,
		},
		Redis: RedisConfig{
			URL: strings.TrimSpace(getEnvOrViper(v, "REDIS_URL", "")),
		},
		HTTP: HTTPConfig{
			AllowedOrigins:    splitList(getEnvOrViper(v, "CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			AuthRatePerMinute: authRate,
		},
		Mock: MockConfig{
			Port:      getEnvOrViper(v, "MOCK_PORT", "8080"),
			OTP:       strings.TrimSpace(getEnvOrViper(v, "MOCK_OTP", "123456")),
			JWTSecret: strings.TrimSpace(getEnvOrViper(v, "JWT_SECRET", "")),
		},
	}

	// Validate
	switch cfg.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if cfg.Redis.URL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return nil, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, cfg.Session.Store)
	}
	if cfg.Session.Timeout <= 0 {
		return nil, fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnvOrViper(v *viper.Viper, key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

func getDuration(v *viper.Viper, key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getEnvOrViper(v, key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(v *viper.Viper, key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(getEnvOrViper(v, key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
