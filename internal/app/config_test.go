package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio/internal/app"
)

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "")
	t.Setenv("CSRF_SECRET", "")

	_, err := app.LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "token-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, 60*time.Minute, cfg.LoginTokenTTL)
	require.True(t, cfg.MigrateOnStart)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "token-secret")
	t.Setenv("CSRF_SECRET", "csrf-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_LOGIN_TOKEN_TTL", "30m")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, 30*time.Minute, cfg.LoginTokenTTL)
}
