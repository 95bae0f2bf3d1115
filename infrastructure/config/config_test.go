package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "mythos-artifacts", cfg.DynamoDBTable)
	assert.Equal(t, "mythos-events", cfg.EventBusName)
	assert.Equal(t, 10*time.Second, cfg.RemoteOpTimeout)
	assert.Equal(t, 90*time.Second, cfg.IterationTimeout)
	assert.Equal(t, "dynamodb", cfg.StorageBackend)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("REMOTE_ENGINE_URL", "https://engine.mythos.app")
	t.Setenv("REMOTE_OP_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("IS_LAMBDA", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "https://engine.mythos.app", cfg.RemoteEngineURL)
	assert.Equal(t, 3*time.Second, cfg.RemoteOpTimeout)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsLambda)
}

func TestLoadConfig_UnknownStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestConfig_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORAGE_BACKEND", "memory")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvHelpers_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("REMOTE_OP_TIMEOUT", "soon")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 10*time.Second, cfg.RemoteOpTimeout)
}
