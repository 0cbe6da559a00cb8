package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, EnvDev, cfg.App.Env)
	assert.False(t, cfg.IsLocal(), "debug headers off unless APP_ENV=local")
	assert.Equal(t, "memory", cfg.Sessions.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "log", cfg.Notify.Backend)
	assert.Equal(t, 2*time.Second, cfg.Payments.Latency)
	assert.Equal(t, 800*time.Millisecond, cfg.Auth.Latency)
	assert.Equal(t, "0 8 * * *", cfg.Jobs.ReminderCron)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.CORSOrigins)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "DEV")
	t.Setenv("SESSION_BACKEND", " Redis ")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PAYMENT_LATENCY", "150ms")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.App.Env)
	assert.False(t, cfg.IsLocal())
	assert.Equal(t, "redis", cfg.Sessions.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
	assert.Equal(t, 150*time.Millisecond, cfg.Payments.Latency)
}

func TestParse_LocalIsOptIn(t *testing.T) {
	t.Setenv("APP_ENV", " Local ")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, EnvLocal, cfg.App.Env)
	assert.True(t, cfg.IsLocal())
}

func TestParse_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Parse()
	assert.NoError(t, err)
}

func TestParse_RejectsBadCacheSize(t *testing.T) {
	t.Setenv("CACHE_SIZE", "0")

	_, err := Parse()
	assert.Error(t, err)
}
