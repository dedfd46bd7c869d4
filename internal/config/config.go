// Package config loads server configuration from an optional YAML file and
// SLEEPTRACKER_* environment overrides, with sensible defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config wraps a viper instance with typed accessors.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load reads configuration from the given path (optional; empty means
// defaults plus environment only).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.path", "sleeptracker.db")
	// The three SPA dev servers (Angular, Vue, React).
	v.SetDefault("cors.origins", []string{
		"http://localhost:4200",
		"http://localhost:5173",
		"http://localhost:3000",
	})

	v.SetEnvPrefix("SLEEPTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return New(v), nil
}

// GetString returns the string value for the key.
func (c *Config) GetString(key string) string { return c.v.GetString(key) }

// GetInt returns the int value for the key.
func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

// GetBool returns the bool value for the key.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// GetDuration returns the duration value for the key.
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }

// GetStringSlice returns the string slice value for the key.
func (c *Config) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }

// IsSet reports whether the key has a value.
func (c *Config) IsSet(key string) bool { return c.v.IsSet(key) }

// Sub returns the subtree under the key. Never nil; a missing key yields
// an empty Config.
func (c *Config) Sub(key string) *Config {
	sub := c.v.Sub(key)
	if sub == nil {
		sub = viper.New()
	}
	return New(sub)
}

// Unmarshal decodes the configuration into the given struct.
func (c *Config) Unmarshal(out any) error {
	return c.v.Unmarshal(out)
}

// Addr returns the host:port pair the server should listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetString("server.host"), c.GetInt("server.port"))
}
