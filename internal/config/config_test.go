package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 300, cfg.Database.ConnMaxLifetimeSec)
	assert.False(t, cfg.MinIO.UseSSL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	os.Clearenv()
	t.Setenv("PORT", "9000")
	t.Setenv("LOCAL_TZ", "America/Sao_Paulo")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "finbox")
	t.Setenv("DB_NAME", "finbox")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "finbox", cfg.Database.User)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "minio:9000", cfg.MinIO.Endpoint)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoad_InvalidNumericFallsBack(t *testing.T) {
	os.Clearenv()
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("MINIO_USE_SSL", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.MinIO.UseSSL)
}
