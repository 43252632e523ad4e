// Package config provides configuration management for the hive dashboard.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment
// variables. Environment variables take precedence over file values.
// Environment variable format: HIVEWATCH_<SECTION>_<KEY>
// (e.g. HIVEWATCH_UPSTREAM_TOKEN).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("HIVEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Upstream defaults
	v.SetDefault("upstream.timeout", 30*time.Second)

	// Server defaults
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.write_wait", 10*time.Second)

	// Polling defaults
	v.SetDefault("polling.interval", 30*time.Second)
	v.SetDefault("polling.events_limit", 100)

	// Weight evaluator defaults
	v.SetDefault("weight.robbery_window", 1*time.Hour)
	v.SetDefault("weight.daily_window", 24*time.Hour)
	v.SetDefault("weight.history_size", 2880) // 24h at 30s samples

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)
}
