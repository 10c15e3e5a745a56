package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":9091", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "redfragances_products", cfg.Store.CatalogKey)
	assert.Equal(t, "redfragances_orders", cfg.Store.OrdersKey)
	assert.Equal(t, "123", cfg.Admin.Secret)
	assert.Equal(t, 20*time.Second, cfg.Advisor.Timeout)
	assert.Equal(t, "es-ES", cfg.Locale.Tag)
	assert.Equal(t, DefaultFallback, cfg.Advisor.Fallback)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, "unknown store.backend"},
		{"file without dir", func(c *Config) { c.Store.Backend = BackendFile; c.Store.Dir = "" }, "store.dir"},
		{"sqlite without dsn", func(c *Config) { c.Store.Backend = BackendSQLite }, "store.dsn"},
		{"postgres without dsn", func(c *Config) { c.Store.Backend = BackendPostgres }, "store.dsn"},
		{"redis without addr", func(c *Config) { c.Store.Backend = BackendRedis }, "store.redis_addr"},
		{"nats without url", func(c *Config) { c.Store.Backend = BackendNATS }, "store.nats_url"},
		{"same keys", func(c *Config) { c.Store.OrdersKey = c.Store.CatalogKey }, "must differ"},
		{"empty secret", func(c *Config) { c.Admin.Secret = "" }, "admin.secret"},
		{"zero timeout", func(c *Config) { c.Advisor.Timeout = 0 }, "advisor.timeout"},
		{"temperature", func(c *Config) { c.Advisor.Temperature = 3 }, "advisor.temperature"},
		{"negative burst", func(c *Config) { c.Advisor.Burst = -1 }, "rate limits"},
		{"empty fallback", func(c *Config) { c.Advisor.Fallback = "" }, "advisor.fallback"},
		{"bad zone", func(c *Config) { c.Locale.TimeZone = "Mars/Olympus" }, "locale.time_zone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redfragances.yaml")
	data := []byte(`
server:
  addr: ":8080"
store:
  backend: sqlite
  dsn: "shop.db"
advisor:
  timeout: 5s
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "shop.db", cfg.Store.DSN)
	assert.Equal(t, 5*time.Second, cfg.Advisor.Timeout)
	// untouched sections keep defaults
	assert.Equal(t, "123", cfg.Admin.Secret)
	assert.Equal(t, "redfragances_products", cfg.Store.CatalogKey)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Store.Backend = BackendRedis
	cfg.Store.RedisAddr = "localhost:6379"
	cfg.Advisor.Timeout = 15 * time.Second

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(nil)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.Merge(&Config{
		Server:  ServerConfig{Addr: ":7000"},
		Store:   StoreConfig{Backend: BackendNATS, NATSURL: "nats://localhost:4222"},
		Advisor: AdvisorConfig{Endpoint: "http://llm.local/v1"},
		Log:     LogConfig{Level: "debug", Development: true},
	})

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, BackendNATS, cfg.Store.Backend)
	assert.Equal(t, "nats://localhost:4222", cfg.Store.NATSURL)
	assert.Equal(t, "redfragances", cfg.Store.NATSBucket)
	assert.Equal(t, "http://llm.local/v1", cfg.Advisor.Endpoint)
	assert.Equal(t, 20*time.Second, cfg.Advisor.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	require.NoError(t, cfg.Validate())
}
