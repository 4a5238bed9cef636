package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/api/v1", cfg.BasePath)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "stores", cfg.Collections.Stores)
	assert.Equal(t, "store_likes", cfg.Collections.Likes)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Error(t, cfg.ValidateAuth())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://mymoo@localhost/mymoo")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("AUTH_LINE_JWT_SECRET", "line-secret")
	t.Setenv("AUTH_TWITTER_JWT_SECRET", "twitter-secret")
	t.Setenv("AUTH_JWT_AUDIENCE", "mymoo-api")
	t.Setenv("ADMIN_JWT_SECRET", " admin ")
	t.Setenv("API_ALLOWED_ORIGINS", "https://mymoo.kr, ,https://admin.mymoo.kr")
	t.Setenv("REQUEST_TIMEOUT", "750ms")

	cfg, err := load(newViper())
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "postgres://mymoo@localhost/mymoo", cfg.DatabaseURL)
	assert.Equal(t, "/api/v2", cfg.BasePath)
	require.Len(t, cfg.JWTConfigs, 2)
	assert.Equal(t, JWTConfig{Issuer: "mymoo-auth", Secret: []byte("line-secret")}, cfg.JWTConfigs[0])
	assert.Equal(t, "auth-twitter", cfg.JWTConfigs[1].Issuer)
	assert.Equal(t, "mymoo-api", cfg.JWTAudience)
	assert.Equal(t, []byte("admin"), cfg.AdminJWT.Secret)
	assert.Equal(t, []string{"https://mymoo.kr", "https://admin.mymoo.kr"}, cfg.AllowedOrigins)
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.NoError(t, cfg.ValidateAuth())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "redis")
		_, err := load(newViper())
		assert.Error(t, err)
	})
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := load(newViper())
		assert.Error(t, err)
	})
}
