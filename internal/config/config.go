// Package config provides configuration management for the hive dashboard.
package config

import "time"

// Config is the root configuration structure for the dashboard server.
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream" validate:"required"`
	Server   ServerConfig   `mapstructure:"server"`
	Polling  PollingConfig  `mapstructure:"polling"`
	Weight   WeightConfig   `mapstructure:"weight"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

// UpstreamConfig contains configuration for the hive telemetry API.
type UpstreamConfig struct {
	Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ServerConfig contains configuration for the dashboard HTTP server.
type ServerConfig struct {
	Listen string `mapstructure:"listen" validate:"required"`
	// AllowedOrigins for CORS; dashboard frontends are served separately.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// WriteWait bounds how long a websocket write may block before the
	// client is dropped.
	WriteWait time.Duration `mapstructure:"write_wait"`
}

// PollingConfig controls the upstream polling loop.
type PollingConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	// EventsLimit caps how many historical events are fetched per cycle.
	EventsLimit int `mapstructure:"events_limit" validate:"gte=1,lte=1000"`
}

// WeightConfig holds the observation windows for the rate-based weight
// evaluator. The weight thresholds themselves come from the upstream
// threshold store.
type WeightConfig struct {
	RobberyWindow time.Duration `mapstructure:"robbery_window"`
	DailyWindow   time.Duration `mapstructure:"daily_window"`
	// HistorySize caps the retained weight sample window.
	HistorySize int `mapstructure:"history_size" validate:"gte=2,lte=100000"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for upstream requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}
