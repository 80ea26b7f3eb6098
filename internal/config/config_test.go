package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := load(viper.New())

	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5, cfg.DB.MaxRetries)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expire)
	assert.True(t, cfg.Leave.Sick().Equal(cfg.Leave.Sick()))
	assert.Equal(t, "10", cfg.Leave.Sick().String())
	assert.Equal(t, "5", cfg.Leave.Vacation().String())
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LEAVE_DEFAULT_SICK", "7.5")
	t.Setenv("OUTBOX_POLL_INTERVAL", "1s")

	cfg, err := load(viper.New())

	assert.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "7.5", cfg.Leave.Sick().String())
	assert.Equal(t, time.Second, cfg.Outbox.PollInterval)
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := load(viper.New())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Secret")
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("APP_ENV", "staging")

	_, err := load(viper.New())

	assert.Error(t, err)
}
