package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "$", cfg.Journal.Currency)
	assert.Equal(t, 0.65, cfg.Journal.DefaultCommission)
	assert.Equal(t, StoreFile, cfg.Store.Type)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			mut:  func(*Config) {},
		},
		{
			name: "memory store needs no path",
			mut:  func(c *Config) { c.Store = StoreConfig{Type: StoreMemory} },
		},
		{
			name:    "missing currency",
			mut:     func(c *Config) { c.Journal.Currency = "" },
			wantErr: true,
			errMsg:  "currency is required",
		},
		{
			name:    "negative commission",
			mut:     func(c *Config) { c.Journal.DefaultCommission = -1 },
			wantErr: true,
			errMsg:  "defaultCommission",
		},
		{
			name:    "unknown store",
			mut:     func(c *Config) { c.Store.Type = "postgres" },
			wantErr: true,
			errMsg:  "store.type must be",
		},
		{
			name:    "sqlite without path",
			mut:     func(c *Config) { c.Store = StoreConfig{Type: StoreSQLite} },
			wantErr: true,
			errMsg:  "store.path required for sqlite store",
		},
		{
			name:    "bad log level",
			mut:     func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			mut:     func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format must be",
		},
		{
			name:    "missing addr",
			mut:     func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Journal.Currency = "€"
			cfg.Store = StoreConfig{Type: StoreSQLite, Path: "journal.db"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  type: memory\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Type)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "$", cfg.Journal.Currency)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  type: s3\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(map[string]string{
		EnvStoreType:  "sqlite",
		EnvStorePath:  "/tmp/o.db",
		EnvLogLevel:   "debug",
		EnvAddr:       "127.0.0.1:9000",
		EnvCurrency:   "£",
		EnvCommission: "1.25",
		EnvLogFormat:  "",
	})
	require.NoError(t, err)

	assert.Equal(t, StoreConfig{Type: StoreSQLite, Path: "/tmp/o.db"}, cfg.Store)
	assert.Equal(t, LogConfig{Level: "debug", Format: "text"}, cfg.Log)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "£", cfg.Settings().Currency)
	assert.Equal(t, 1.25, cfg.Settings().DefaultCommission)

	assert.Error(t, cfg.ApplyEnv(map[string]string{EnvCommission: "cheap"}))
}

func TestEnviron(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("ODYSSEY_TEST_FROM_FILE=file\nODYSSEY_TEST_BOTH=file\n"), 0644))
	t.Setenv("ODYSSEY_TEST_BOTH", "process")

	env, err := Environ(filepath.Join(dir, "missing.env"), dotenv)
	require.NoError(t, err)
	assert.Equal(t, "file", env["ODYSSEY_TEST_FROM_FILE"])
	assert.Equal(t, "process", env["ODYSSEY_TEST_BOTH"])
}
