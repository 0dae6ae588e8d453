package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, _, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "local", cfg.AssetBackend)
	assert.False(t, cfg.ReservePendingSlots)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ASSET_BACKEND", "ftp")

	_, _, err := Load()
	assert.ErrorContains(t, err, "ASSET_BACKEND")
}

func TestLoadS3NeedsBucket(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ASSET_BACKEND", "s3")

	_, _, err := Load()
	assert.ErrorContains(t, err, "S3_BUCKET")

	t.Setenv("S3_BUCKET", "logos")
	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "logos", cfg.S3.Bucket)
	assert.Equal(t, "auto", cfg.S3.Region)
}
