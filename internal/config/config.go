package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Store   StoreConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig describes connectivity to the Redis store.
type StoreConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RetryAttempts bounds the reconnect loop; 0 retries indefinitely.
	RetryAttempts int
	RetryDelay    time.Duration
}

// AuthConfig holds the shared token salts.
type AuthConfig struct {
	Salt      string
	AdminSalt string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
	File   string // empty writes to stdout
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"

	defaultStoreAddr        = "localhost:6379"
	defaultStoreDialTimeout = 20 * time.Second
	defaultStoreTimeout     = 3 * time.Second
	defaultStoreRetries     = 3
	defaultStoreRetryDelay  = time.Second
	defaultSalt             = "Otus"
	defaultAdminSalt        = "42"
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Store: StoreConfig{
			Addr:          valueOrDefault("STORE_ADDR", defaultStoreAddr),
			Password:      os.Getenv("STORE_PASSWORD"),
			DB:            parseIntWithDefault("STORE_DB", 0),
			DialTimeout:   defaultStoreDialTimeout,
			ReadTimeout:   defaultStoreTimeout,
			WriteTimeout:  defaultStoreTimeout,
			RetryAttempts: parseIntWithDefault("STORE_RETRY_ATTEMPTS", defaultStoreRetries),
			RetryDelay:    defaultStoreRetryDelay,
		},
		Auth: AuthConfig{
			Salt:      valueOrDefault("AUTH_SALT", defaultSalt),
			AdminSalt: valueOrDefault("AUTH_ADMIN_SALT", defaultAdminSalt),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	if err := overrideDuration("SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return Config{}, err
	}
	if err := overrideDuration("SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return Config{}, err
	}
	if err := overrideDuration("SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return Config{}, err
	}
	if err := overrideDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if err := overrideDuration("STORE_DIAL_TIMEOUT", &cfg.Store.DialTimeout); err != nil {
		return Config{}, err
	}
	if err := overrideDuration("STORE_TIMEOUT", &cfg.Store.ReadTimeout); err != nil {
		return Config{}, err
	}
	cfg.Store.WriteTimeout = cfg.Store.ReadTimeout
	if err := overrideDuration("STORE_RETRY_DELAY", &cfg.Store.RetryDelay); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func overrideDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
