// Package hive provides a client for the upstream hive telemetry API.
package hive

import (
	"encoding/json"
	"fmt"

	"hivewatch/internal/model"
)

// APIResponse is the envelope every upstream endpoint responds with.
type APIResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// IsSuccess returns true if the API reported success.
func (r *APIResponse) IsSuccess() bool {
	return r.Status == "success"
}

// DecodeTelemetry parses the envelope data as a telemetry reading.
func (r *APIResponse) DecodeTelemetry() (*model.TelemetryReading, error) {
	var reading model.TelemetryReading
	if err := json.Unmarshal(r.Data, &reading); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry payload: %w", err)
	}
	return &reading, nil
}

// DecodeThresholds parses the envelope data as a threshold config.
func (r *APIResponse) DecodeThresholds() (*model.ThresholdConfig, error) {
	var cfg model.ThresholdConfig
	if err := json.Unmarshal(r.Data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode thresholds payload: %w", err)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = make(map[string]model.ThresholdSet)
	}
	return &cfg, nil
}

// DecodeEvents parses the envelope data as an event list.
func (r *APIResponse) DecodeEvents() ([]*model.HiveEvent, error) {
	var events []*model.HiveEvent
	if err := json.Unmarshal(r.Data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events payload: %w", err)
	}
	return events, nil
}
