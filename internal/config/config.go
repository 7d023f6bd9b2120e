package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level configuration for salescope.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Data   DataConfig   `koanf:"data"`
	Cache  CacheConfig  `koanf:"cache"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // "debug" or "release"
}

// DataConfig locates the JSON exports the loader ingests.
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// CacheConfig controls the query response cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	TTL     string `koanf:"ttl"` // parsed as time.Duration
}

// ParseTTL returns the cache expiry as a duration.
func (c CacheConfig) ParseTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("cache ttl must be positive, got %q", c.TTL)
	}
	return d, nil
}

// Load loads the configuration from the given file path and environment
// variables. An empty configPath skips the file layer and uses defaults
// plus environment overrides only.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"server.port":   5000,
		"server.host":   "0.0.0.0",
		"server.mode":   "release",
		"data.dir":      "./data",
		"cache.enabled": true,
		"cache.ttl":     "5m",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// 2. Load from file
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// 3. Load from Environment Variables
	// SALESCOPE_SERVER__PORT=9090 overrides server.port
	if err := k.Load(env.Provider("SALESCOPE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "SALESCOPE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.Cache.ParseTTL(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
