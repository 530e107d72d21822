package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/odyssey/journal"
)

// Store types.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Environment variables read by ApplyEnv.
const (
	EnvStoreType  = "ODYSSEY_STORE_TYPE"
	EnvStorePath  = "ODYSSEY_STORE_PATH"
	EnvLogLevel   = "ODYSSEY_LOG_LEVEL"
	EnvLogFormat  = "ODYSSEY_LOG_FORMAT"
	EnvAddr       = "ODYSSEY_ADDR"
	EnvCurrency   = "ODYSSEY_CURRENCY"
	EnvCommission = "ODYSSEY_DEFAULT_COMMISSION"
)

// Config is the application configuration.
type Config struct {
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// JournalConfig holds the display settings a new journal starts with.
type JournalConfig struct {
	Currency          string  `json:"currency" yaml:"currency"`
	DefaultCommission float64 `json:"default_commission" yaml:"default_commission"`
}

// StoreConfig selects where the journal is kept.
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // "memory", "file" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML or JSON depending on the extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	switch c.Store.Type {
	case StoreMemory:
	case StoreFile, StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for %s store", c.Store.Type)
		}
	default:
		return fmt.Errorf("store.type must be 'memory', 'file' or 'sqlite'")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Settings returns the journal settings a new book is created with.
func (c *Config) Settings() journal.Settings {
	return journal.Settings{
		Currency:          c.Journal.Currency,
		DefaultCommission: c.Journal.DefaultCommission,
	}
}

// Environ returns the process environment layered over the variables
// found in the given dotenv files. Missing files are skipped.
func Environ(files ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, f := range files {
		vars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vars {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides c with the ODYSSEY_* variables set in env.
func (c *Config) ApplyEnv(env map[string]string) error {
	set := func(key string, dst *string) {
		if v, ok := env[key]; ok && v != "" {
			*dst = v
		}
	}
	set(EnvStoreType, &c.Store.Type)
	set(EnvStorePath, &c.Store.Path)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
	set(EnvAddr, &c.Server.Addr)
	set(EnvCurrency, &c.Journal.Currency)

	if v, ok := env[EnvCommission]; ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCommission, err)
		}
		c.Journal.DefaultCommission = f
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	s := journal.DefaultSettings()
	return &Config{
		Journal: JournalConfig{
			Currency:          s.Currency,
			DefaultCommission: s.DefaultCommission,
		},
		Store: StoreConfig{
			Type: StoreFile,
			Path: "./odyssey.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
