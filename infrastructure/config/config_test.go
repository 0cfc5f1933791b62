package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("INSIGHT_CACHE_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageDynamoDB, cfg.StorageDriver)
	assert.Equal(t, 5*time.Minute, cfg.InsightCacheDuration())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/kindra-test.db")
	t.Setenv("INSIGHT_CACHE_TTL", "0")
	t.Setenv("ADVICE_RATE_LIMIT", "3")
	t.Setenv("ENABLE_TRACING", "yes")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, "/tmp/kindra-test.db", cfg.SQLitePath)
	assert.Zero(t, cfg.InsightCacheDuration())
	assert.Equal(t, 3, cfg.AdviceRateLimit)
	assert.True(t, cfg.EnableTracing)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid memory", func(c *Config) { c.StorageDriver = StorageMemory }, ""},
		{"unknown driver", func(c *Config) { c.StorageDriver = "postgres" }, "STORAGE_DRIVER"},
		{"negative ttl", func(c *Config) { c.InsightCacheTTL = -1 }, "INSIGHT_CACHE_TTL"},
		{"production needs secret", func(c *Config) { c.Environment = "production" }, "JWT_SECRET"},
		{"production forbids memory", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s3cret"
			c.StorageDriver = StorageMemory
		}, "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Environment:   "development",
				StorageDriver: StorageDynamoDB,
				DynamoDBTable: "kindra",
				EventBusName:  "bus",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
