// Package config loads stravaweb settings from an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	BaseURL     string    `mapstructure:"base_url"`
	APIBaseURL  string    `mapstructure:"api_base_url"`
	Email       string    `mapstructure:"email"`
	Password    string    `mapstructure:"password"`
	Token       string    `mapstructure:"token"`
	CSRFParam   string    `mapstructure:"csrf_param"`
	CSRFToken   string    `mapstructure:"csrf_token"`
	APIToken    string    `mapstructure:"api_token"`
	RedisURL    string    `mapstructure:"redis_url"`
	// DatabaseURL is a postgres:// URL or a SQLite file path.
	DatabaseURL string    `mapstructure:"database_url"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CSRF returns the pre-supplied CSRF pair, or nil if either half is missing.
func (c *Config) CSRF() map[string]string {
	if c.CSRFParam == "" || c.CSRFToken == "" {
		return nil
	}
	return map[string]string{c.CSRFParam: c.CSRFToken}
}

// Load reads configuration from stravaweb.yaml (if present) and STRAVAWEB_*
// environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("stravaweb")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STRAVAWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", "https://www.strava.com")
	v.SetDefault("api_base_url", "https://www.strava.com/api/v3")
	v.SetDefault("log.level", "info")

	// AutomaticEnv only applies to keys viper already knows about.
	for _, k := range []string{"email", "password", "token", "csrf_param", "csrf_token", "api_token", "redis_url", "database_url"} {
		v.SetDefault(k, "")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
