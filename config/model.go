package config

import (
	"strings"
	"time"
)

// Config is the fully resolved configuration, merged from the config file,
// command-line flags and defaults. The engine itself only sees the pieces it
// needs (provider order, timeout, cache TTL); the rest drives the CLI shell.
type Config struct {
	Timeout   int      `mapstructure:"timeout"`
	Proxy     string   `mapstructure:"proxy"`
	Refresh   int      `mapstructure:"refresh"`
	Debug     bool     `mapstructure:"debug"`
	CacheTTL  int      `mapstructure:"cache_ttl"`
	Providers []string `mapstructure:"providers"`
	Queries   []string `mapstructure:"queries"`
}

func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// NormalizedProviders returns the configured provider names lower-cased and
// trimmed, preserving the configured order. An empty slice means "all
// registered providers in registration order".
func (c *Config) NormalizedProviders() []string {
	names := make([]string, 0, len(c.Providers))
	for _, name := range c.Providers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
