package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomerge/internal/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		config.EnvLogLevel, config.EnvLogDir, config.EnvCacheSize, config.EnvCacheTTL,
		config.EnvConcurrency, config.EnvMaxCells, config.EnvGCSCredentials,
	} {
		t.Setenv(k, "")
	}
}

// TestLoadDefaults verifies defaults when nothing is set.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.LogDir)
	assert.Equal(t, config.DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, config.DefaultCacheTTL, cfg.CacheTTL)
	assert.GreaterOrEqual(t, cfg.Concurrency, 1)
	assert.Equal(t, config.DefaultMaxCells, cfg.MaxCells)
}

// TestLoadEnv verifies typed parsing of environment values.
func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvCacheSize, "3")
	t.Setenv(config.EnvCacheTTL, "45")
	t.Setenv(config.EnvConcurrency, "2")
	t.Setenv(config.EnvMaxCells, "1000")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.CacheSize)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 1000, cfg.MaxCells)
}

// TestLoadDotEnv verifies that a .env file seeds unset variables only.
func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv treats an empty but present variable as set.
	os.Unsetenv(config.EnvCacheSize)
	os.Unsetenv(config.EnvCacheTTL)
	t.Setenv(config.EnvConcurrency, "4")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("TOPOMERGE_CACHE_SIZE=5\nTOPOMERGE_CACHE_TTL=2m\nTOPOMERGE_CONCURRENCY=9\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv(config.EnvCacheSize)
		os.Unsetenv(config.EnvCacheTTL)
	})

	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.CacheSize)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.Concurrency)
}

// TestLoadMissingDotEnv verifies that an absent .env file is not an error.
func TestLoadMissingDotEnv(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

// TestValidate verifies range checks.
func TestValidate(t *testing.T) {
	cases := map[string]string{
		config.EnvLogLevel:    "verbose",
		config.EnvCacheSize:   "many",
		config.EnvCacheTTL:    "soon",
		config.EnvConcurrency: "0",
		config.EnvMaxCells:    "-5",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := config.Load("")
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

// TestReadCredentials verifies the credentials file is read when set.
func TestReadCredentials(t *testing.T) {
	cfg := &config.Config{}
	data, err := cfg.ReadCredentials()
	require.NoError(t, err)
	assert.Nil(t, data)

	file := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"type":"service_account"}`), 0o600))
	cfg.GCSCredentials = file
	data, err = cfg.ReadCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(data))
}
