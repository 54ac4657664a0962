package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Expiry)
	assert.Contains(t, cfg.Database.URL, "host=db.internal")
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/inv")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost:5432/inv", cfg.Database.URL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
