package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.InDelta(t, 350, cfg.Pricing.RoadPreparationFee, 0.001)
	assert.Equal(t, "Stock Dealer", cfg.Pricing.DealerStockLocation)
	assert.True(t, cfg.DemoSeed)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Server.Port)
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/dealer?sslmode=disable")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_PublicBaseURLMustBePath(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	for _, bad := range []string{"https://cdn.example.com/uploads", "uploads", "/"} {
		t.Setenv("PUBLIC_BASE_URL", bad)
		_, err := Load()
		assert.ErrorContains(t, err, "PUBLIC_BASE_URL", bad)
	}

	t.Setenv("PUBLIC_BASE_URL", "/files/")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/files", cfg.Uploads.PublicBaseURL)
}

func TestLoad_RejectsNegativeVAT(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("VAT_RATE", "-1")
	_, err := Load()
	assert.ErrorContains(t, err, "VAT_RATE")
}
