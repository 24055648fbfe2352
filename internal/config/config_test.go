package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/skyfare/internal/travelpayouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TRAVELPAYOUT_TOKEN", "SKYFARE_UPSTREAM_TOKEN", "PORT", "SKYFARE_SERVER_PORT", "SKYFARE_CACHE_TTL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_MissingTokenFailsFast(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingToken))
	assert.Equal(t, "config: TRAVELPAYOUT_TOKEN is required", err.Error())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRAVELPAYOUT_TOKEN", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Upstream.Token)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, travelpayouts.DefaultPricesURL, cfg.Upstream.PricesURL)
	assert.Equal(t, 2, cfg.Upstream.Retries)
	assert.Equal(t, 200*time.Millisecond, cfg.Upstream.Backoff)
	assert.Equal(t, travelpayouts.StandardDefaults(), cfg.Search.Defaults)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKYFARE_UPSTREAM_TOKEN", "from-prefix")
	t.Setenv("PORT", "9090")
	t.Setenv("SKYFARE_CACHE_TTL", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-prefix", cfg.Upstream.Token)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Cache.TTL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
upstream:
  token: file-token
  retries: 4
search:
  defaults:
    currency: eur
    limit: 10
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Upstream.Token)
	assert.Equal(t, 4, cfg.Upstream.Retries)
	assert.Equal(t, "eur", cfg.Search.Defaults.Currency)
	assert.Equal(t, 10, cfg.Search.Defaults.Limit)
	assert.Equal(t, "price", cfg.Search.Defaults.Sorting)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_BadLevel(t *testing.T) {
	cfg := &Config{
		Upstream: UpstreamConfig{Token: "x", Timeout: time.Second},
		Search:   SearchConfig{Defaults: travelpayouts.StandardDefaults()},
		Log:      LogConfig{Level: "loud"},
	}
	var cerr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cerr)
	assert.Equal(t, "log.level", cerr.Field)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestLoad_SandboxNeedsNoToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKYFARE_UPSTREAM_SANDBOX", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Upstream.Sandbox)
	assert.Empty(t, cfg.Upstream.Token)
}
