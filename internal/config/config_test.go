package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "hel_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("AUTH_SECRET", "testsecret123456789012345678901234")
	t.Setenv("LIST_LENGTH_PACKAGES", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, 5, cfg.Lists.Packages)
	require.Equal(t, 20, cfg.Lists.Users)
	require.Equal(t, "auth_tkt", cfg.Auth.CookieName)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	require.True(t, cfg.Search.StoreSide)
}

func TestLoadConfigWithoutMongo(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("LIST_LENGTH_USERS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.MongoDB.URI)
	require.Empty(t, cfg.Redis.Addr())
	require.Equal(t, 20, cfg.Lists.Users)
	require.Equal(t, 24*time.Hour, cfg.Activation.Time)
}
