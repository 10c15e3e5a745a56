// Package config provides configuration loading for the storefront server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendNATS     = "nats"
)

// Config represents the complete server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Admin   AdminConfig   `yaml:"admin"`
	Advisor AdvisorConfig `yaml:"advisor"`
	Locale  LocaleConfig  `yaml:"locale"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	// Backend is one of memory, file, sqlite, postgres, redis, nats
	Backend string `yaml:"backend"`
	// Dir holds one JSON file per document for the file backend
	Dir string `yaml:"dir"`
	// DSN is a sqlite path (":memory:" allowed) or a postgres connection string
	DSN           string `yaml:"dsn"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	NATSURL       string `yaml:"nats_url"`
	NATSBucket    string `yaml:"nats_bucket"`
	// KeyPrefix is prepended to redis keys
	KeyPrefix   string        `yaml:"key_prefix"`
	CatalogKey  string        `yaml:"catalog_key"`
	OrdersKey   string        `yaml:"orders_key"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// AdminConfig configures the administrator gate
type AdminConfig struct {
	Secret string `yaml:"secret"`
}

// AdvisorConfig configures the chat advisor backend
type AdvisorConfig struct {
	// Endpoint is an OpenAI-compatible base URL; empty disables the remote advisor
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv         string        `yaml:"api_key_env"`
	Timeout           time.Duration `yaml:"timeout"`
	Temperature       float64       `yaml:"temperature"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	SystemPrompt      string        `yaml:"system_prompt"`
	Fallback          string        `yaml:"fallback"`
	Greeting          string        `yaml:"greeting"`
}

// LocaleConfig controls how dates and amounts are rendered
type LocaleConfig struct {
	Tag      string `yaml:"tag"`
	TimeZone string `yaml:"time_zone"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default advisor texts
const (
	DefaultSystemPrompt = "Eres un experto perfumista de \"Redfragances\". " +
		"Tu objetivo es ayudar a los clientes de forma EXTREMADAMENTE CONCISA. " +
		"Da respuestas muy cortas, directas y moderadas. " +
		"No uses párrafos largos. Recomienda 1 o 2 opciones máximo. " +
		"Usa un tono elegante pero minimalista. Habla siempre en español."
	DefaultFallback = "Lo siento, tuve un problema de conexión. ¿Cómo puedo ayudarte hoy?"
	DefaultGreeting = "¡Hola! Soy tu sumiller de perfumes con IA. ¿En qué puedo ayudarte hoy?"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":9091",
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Backend:     BackendMemory,
			Dir:         "data",
			NATSBucket:  "redfragances",
			CatalogKey:  "redfragances_products",
			OrdersKey:   "redfragances_orders",
			OpenTimeout: 10 * time.Second,
		},
		Admin: AdminConfig{
			Secret: "123",
		},
		Advisor: AdvisorConfig{
			Model:             "gemini-2.5-flash",
			APIKeyEnv:         "REDFRAGANCES_ADVISOR_API_KEY",
			Timeout:           20 * time.Second,
			Temperature:       0.5,
			RequestsPerSecond: 1,
			Burst:             3,
			SystemPrompt:      DefaultSystemPrompt,
			Fallback:          DefaultFallback,
			Greeting:          DefaultGreeting,
		},
		Locale: LocaleConfig{
			Tag:      "es-ES",
			TimeZone: "Local",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir is required for the file backend")
		}
	case BackendSQLite, BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s backend", c.Store.Backend)
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis backend")
		}
	case BackendNATS:
		if c.Store.NATSURL == "" || c.Store.NATSBucket == "" {
			return fmt.Errorf("store.nats_url and store.nats_bucket are required for the nats backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	if c.Store.CatalogKey == "" || c.Store.OrdersKey == "" {
		return fmt.Errorf("store.catalog_key and store.orders_key are required")
	}
	if c.Store.CatalogKey == c.Store.OrdersKey {
		return fmt.Errorf("store.catalog_key and store.orders_key must differ")
	}
	if c.Admin.Secret == "" {
		return fmt.Errorf("admin.secret is required")
	}
	if c.Advisor.Timeout <= 0 {
		return fmt.Errorf("advisor.timeout must be positive")
	}
	if c.Advisor.Temperature < 0 || c.Advisor.Temperature > 2 {
		return fmt.Errorf("advisor.temperature must be between 0 and 2")
	}
	if c.Advisor.RequestsPerSecond < 0 || c.Advisor.Burst < 0 {
		return fmt.Errorf("advisor rate limits must not be negative")
	}
	if c.Advisor.Fallback == "" {
		return fmt.Errorf("advisor.fallback is required")
	}
	if c.Locale.Tag == "" {
		return fmt.Errorf("locale.tag is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("locale.time_zone: %w", err)
	}
	return nil
}

// Location resolves Locale.TimeZone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Locale.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Locale.TimeZone)
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}

	// Store
	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.Dir != "" {
		c.Store.Dir = other.Store.Dir
	}
	if other.Store.DSN != "" {
		c.Store.DSN = other.Store.DSN
	}
	if other.Store.RedisAddr != "" {
		c.Store.RedisAddr = other.Store.RedisAddr
	}
	if other.Store.RedisPassword != "" {
		c.Store.RedisPassword = other.Store.RedisPassword
	}
	if other.Store.RedisDB != 0 {
		c.Store.RedisDB = other.Store.RedisDB
	}
	if other.Store.NATSURL != "" {
		c.Store.NATSURL = other.Store.NATSURL
	}
	if other.Store.NATSBucket != "" {
		c.Store.NATSBucket = other.Store.NATSBucket
	}
	if other.Store.KeyPrefix != "" {
		c.Store.KeyPrefix = other.Store.KeyPrefix
	}
	if other.Store.CatalogKey != "" {
		c.Store.CatalogKey = other.Store.CatalogKey
	}
	if other.Store.OrdersKey != "" {
		c.Store.OrdersKey = other.Store.OrdersKey
	}
	if other.Store.OpenTimeout != 0 {
		c.Store.OpenTimeout = other.Store.OpenTimeout
	}

	// Admin
	if other.Admin.Secret != "" {
		c.Admin.Secret = other.Admin.Secret
	}

	// Advisor
	if other.Advisor.Endpoint != "" {
		c.Advisor.Endpoint = other.Advisor.Endpoint
	}
	if other.Advisor.Model != "" {
		c.Advisor.Model = other.Advisor.Model
	}
	if other.Advisor.APIKeyEnv != "" {
		c.Advisor.APIKeyEnv = other.Advisor.APIKeyEnv
	}
	if other.Advisor.Timeout != 0 {
		c.Advisor.Timeout = other.Advisor.Timeout
	}
	if other.Advisor.Temperature != 0 {
		c.Advisor.Temperature = other.Advisor.Temperature
	}
	if other.Advisor.RequestsPerSecond != 0 {
		c.Advisor.RequestsPerSecond = other.Advisor.RequestsPerSecond
	}
	if other.Advisor.Burst != 0 {
		c.Advisor.Burst = other.Advisor.Burst
	}
	if other.Advisor.SystemPrompt != "" {
		c.Advisor.SystemPrompt = other.Advisor.SystemPrompt
	}
	if other.Advisor.Fallback != "" {
		c.Advisor.Fallback = other.Advisor.Fallback
	}
	if other.Advisor.Greeting != "" {
		c.Advisor.Greeting = other.Advisor.Greeting
	}

	// Locale
	if other.Locale.Tag != "" {
		c.Locale.Tag = other.Locale.Tag
	}
	if other.Locale.TimeZone != "" {
		c.Locale.TimeZone = other.Locale.TimeZone
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Development {
		c.Log.Development = true
	}
}
