package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	LogLevel       string
	LogDevelopment bool

	CommerceAPIURL     string
	CommerceAPITimeout time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// GuestStore selects where guest state lives: memory, redis or sqlite.
	GuestStore     string
	GuestNamespace string
	GuestStateTTL  time.Duration
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	CartCacheTTL     time.Duration
	WishlistCacheTTL time.Duration
	AuthCacheTTL     time.Duration

	SessionSecret     string
	SessionCookieName string
	SessionSecure     bool
	SessionMaxAge     time.Duration

	SearchHistoryLimit int

	// KafkaBrokers enables the checkout events listener when non-empty.
	KafkaBrokers  []string
	CheckoutTopic string
	KafkaGroupID  string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		MaxRequestBodySize: 1 << 20, // 1MB
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CommerceAPIURL:     getEnv("COMMERCE_API_URL", "http://localhost:4000/api"),
		GuestStore:         getEnv("GUEST_STORE", StoreMemory),
		GuestNamespace:     getEnv("GUEST_NAMESPACE", "electro-atlas"),
		SQLitePath:         getEnv("SQLITE_PATH", "./data/guest_state.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionCookieName:  getEnv("SESSION_COOKIE", "atlas_session"),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		CheckoutTopic:      getEnv("CHECKOUT_TOPIC", "checkout-completed"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "storefront-gateway"),
	}

	var err error
	durations := []struct {
		dst *time.Duration
		key string
		def string
	}{
		{&cfg.RequestTimeout, "REQUEST_TIMEOUT", "30s"},
		{&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT", "10s"},
		{&cfg.CommerceAPITimeout, "COMMERCE_API_TIMEOUT", "5s"},
		{&cfg.BreakerOpenTimeout, "BREAKER_OPEN_TIMEOUT", "30s"},
		{&cfg.GuestStateTTL, "GUEST_STATE_TTL", "720h"},
		{&cfg.CartCacheTTL, "CART_CACHE_TTL", "1m"},
		{&cfg.WishlistCacheTTL, "WISHLIST_CACHE_TTL", "5m"},
		{&cfg.AuthCacheTTL, "AUTH_CACHE_TTL", "1m"},
		{&cfg.SessionMaxAge, "SESSION_MAX_AGE", "720h"},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(getEnv(d.key, d.def)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", d.key, err)
		}
	}

	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.SearchHistoryLimit, err = strconv.Atoi(getEnv("SEARCH_HISTORY_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("parse SEARCH_HISTORY_LIMIT: %w", err)
	}
	failures, err := strconv.ParseUint(getEnv("BREAKER_MAX_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parse BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(failures)

	if cfg.LogDevelopment, err = strconv.ParseBool(getEnv("LOG_DEVELOPMENT", "false")); err != nil {
		return nil, fmt.Errorf("parse LOG_DEVELOPMENT: %w", err)
	}
	if cfg.SessionSecure, err = strconv.ParseBool(getEnv("SESSION_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("parse SESSION_SECURE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.GuestStore {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("unknown GUEST_STORE %q", c.GuestStore)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	if c.SearchHistoryLimit <= 0 {
		return fmt.Errorf("SEARCH_HISTORY_LIMIT must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
