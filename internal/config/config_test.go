package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/school")
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "school-branding", cfg.Minio.BrandingBucket)
	assert.Equal(t, time.Minute, cfg.Jobs.MetricsInterval)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/school")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("APP_ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Minio.UseSSL)
	assert.True(t, cfg.IsProduction())
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/school")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("REDIS_DB", "three")
	t.Setenv("JWT_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
