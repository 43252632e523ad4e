// Package model provides data models for the hive dashboard.
package model

import "time"

// Metric identifiers used throughout the dashboard. These must match the
// names declared in metrics.yaml.
const (
	MetricTemperature = "temperature"
	MetricHumidity    = "humidity"
	MetricWeight      = "weight"
	MetricSound       = "sound"
	MetricCO2         = "co2"
	MetricSwarmRisk   = "swarm_risk"
	MetricBattery     = "battery"
	MetricHoneyGain   = "honey_gain"
)

// TelemetryReading is one full telemetry record for a hive: one numeric
// field per metric plus a timestamp. Matches the upstream telemetry
// contract and the payload of push telemetry events.
type TelemetryReading struct {
	HiveID      string    `json:"hive_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WeightKg    float64   `json:"weight_kg"`
	SoundDb     float64   `json:"sound_db"`
	CO2Ppm      float64   `json:"co2_ppm"`
	SwarmRisk   float64   `json:"swarm_risk"`
	Battery     float64   `json:"battery"`
	HoneyGainG  float64   `json:"honey_gain_g"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Samples flattens the reading into per-metric samples keyed by the
// metric identifiers from the metric table.
func (r *TelemetryReading) Samples() []MetricSample {
	return []MetricSample{
		{MetricID: MetricTemperature, Value: r.Temperature, RecordedAt: r.RecordedAt},
		{MetricID: MetricHumidity, Value: r.Humidity, RecordedAt: r.RecordedAt},
		{MetricID: MetricWeight, Value: r.WeightKg, RecordedAt: r.RecordedAt},
		{MetricID: MetricSound, Value: r.SoundDb, RecordedAt: r.RecordedAt},
		{MetricID: MetricCO2, Value: r.CO2Ppm, RecordedAt: r.RecordedAt},
		{MetricID: MetricSwarmRisk, Value: r.SwarmRisk, RecordedAt: r.RecordedAt},
		{MetricID: MetricBattery, Value: r.Battery, RecordedAt: r.RecordedAt},
		{MetricID: MetricHoneyGain, Value: r.HoneyGainG, RecordedAt: r.RecordedAt},
	}
}

// Sample returns the sample for a single metric, with ok reporting
// whether the metric ID is known.
func (r *TelemetryReading) Sample(metricID string) (MetricSample, bool) {
	for _, s := range r.Samples() {
		if s.MetricID == metricID {
			return s, true
		}
	}
	return MetricSample{}, false
}

// HiveEvent is one historical event from the upstream events feed.
type HiveEvent struct {
	ID         string    `json:"id"`
	HiveID     string    `json:"hive_id"`
	MetricID   string    `json:"metric_id"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
