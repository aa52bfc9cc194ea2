package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.GuestStore)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.CartCacheTTL)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	assert.Equal(t, 10, cfg.SearchHistoryLimit)
	assert.False(t, cfg.SessionSecure)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("GUEST_STORE", "sqlite")
	t.Setenv("CART_CACHE_TTL", "15s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.GuestStore)
	assert.Equal(t, 15*time.Second, cfg.CartCacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.SessionSecure)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"SESSION_SECRET": ""}},
		{"short secret", map[string]string{"SESSION_SECRET": "short"}},
		{"bad duration", map[string]string{"SESSION_SECRET": secret, "REQUEST_TIMEOUT": "soon"}},
		{"bad store", map[string]string{"SESSION_SECRET": secret, "GUEST_STORE": "cookie"}},
		{"bad history limit", map[string]string{"SESSION_SECRET": secret, "SEARCH_HISTORY_LIMIT": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
