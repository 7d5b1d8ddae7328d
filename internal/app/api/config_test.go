package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_DISABLED", "SESSION_PURGE_INTERVAL_MINUTES", "SESSION_TTL_HOURS",
		"IDEMPOTENCY_RETENTION_HOURS", "PHOTO_MAX_BYTES", "S3_REGION", "S3_BUCKET", "S3_USE_SSL", "REDIS_ADDR", "REDIS_DB",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.PostgresDSN)
	assert.False(t, cfg.TemporalDisabled)
	assert.Zero(t, cfg.SessionPurgeIntervalMinute)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.IdempotencyRetention)
	assert.Equal(t, int64(1<<20), cfg.PhotoMaxBytes)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.True(t, cfg.S3.UseSSL)
	assert.Equal(t, cfg.PhotoMaxBytes, cfg.S3.MaxBytes)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Zero(t, cfg.Redis.DB)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("PHOTO_MAX_BYTES", "2048")
	t.Setenv("S3_BUCKET", "pet-photos")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_USE_SSL", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(2048), cfg.S3.MaxBytes)
	assert.Equal(t, "pet-photos", cfg.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadConfig_RejectsInvalidNumbers(t *testing.T) {
	for _, key := range []string{"SESSION_PURGE_INTERVAL_MINUTES", "SESSION_TTL_HOURS", "PHOTO_MAX_BYTES", "IDEMPOTENCY_RETENTION_HOURS"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-3")
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadDotEnv_KeepsProcessEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nS3_BUCKET=from-file\n"), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("S3_BUCKET", "")
	require.NoError(t, os.Unsetenv("S3_BUCKET"))

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "9090", os.Getenv("PORT"))
	assert.Equal(t, "from-file", os.Getenv("S3_BUCKET"))
}

func TestLoadDotEnv_IgnoresMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
