package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GROCERY_ADDR", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("TRACING", "")
	t.Setenv("ALLOW_RESET_PRODUCTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.False(t, cfg.AllowReset)
	assert.Equal(t, "0.08", cfg.Tax().String())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.Tracing)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grocery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\ntax_rate: \"0.05\"\nupload_dir: /srv/uploads\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GROCERY_ADDR", "")
	t.Setenv("TAX_RATE", "0.1")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("TRACING", "true")
	t.Setenv("ALLOW_RESET_PRODUCTS", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/srv/uploads", cfg.UploadDir)
	assert.Equal(t, "0.1", cfg.Tax().String())
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.Tracing)
	assert.True(t, cfg.AllowReset)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("TRACING", "")

	t.Setenv("TAX_RATE", "eight percent")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TAX_RATE", "1.5")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TAX_RATE", "")
	t.Setenv("TRACING", "sometimes")
	_, err = Load()
	assert.Error(t, err)
}
