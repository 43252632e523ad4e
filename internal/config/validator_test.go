package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			Endpoint: "http://hive-api.local:9100",
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{Listen: ":8080"},
		Polling: PollingConfig{
			Interval:    30 * time.Second,
			EventsLimit: 100,
		},
		Weight: WeightConfig{
			RobberyWindow: time.Hour,
			DailyWindow:   24 * time.Hour,
			HistorySize:   2880,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		HTTP:    HTTPConfig{Retry: RetryConfig{MaxRetries: 3, BaseDelay: time.Second}},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_MissingEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Upstream.Endpoint = ""

	err := Validate(cfg)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "upstream.endpoint", errs[0].Field)
	assert.Equal(t, "required", errs[0].Tag)
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_NonPositiveInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Polling.Interval = 0

	err := Validate(cfg)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	found := false
	for _, e := range errs {
		if e.Field == "polling.interval" && e.Tag == "positive_duration" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate_WindowOrder(t *testing.T) {
	cfg := validConfig()
	cfg.Weight.RobberyWindow = 48 * time.Hour

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robbery window")
}

func TestValidate_EventsLimitBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Polling.EventsLimit = 0
	assert.Error(t, Validate(cfg))

	cfg.Polling.EventsLimit = 5000
	assert.Error(t, Validate(cfg))
}
