// Package model provides data models for the hive dashboard.
package model

import "time"

// Topology describes the shape of the severity-vs-value relationship for
// a metric.
type Topology string

const (
	// TopologyAscending: severity increases with value, normal is the low
	// end (CO2, swarm risk).
	TopologyAscending Topology = "ascending"
	// TopologyInverted: severity increases as value decreases, normal is
	// the high end (battery, honey gain).
	TopologyInverted Topology = "inverted"
	// TopologyRange: normal is a middle band, severity increases toward
	// both extremes (temperature, humidity, sound).
	TopologyRange Topology = "range"
	// TopologyRate: severity is derived from change over time, not from
	// the absolute value (hive weight). Outside the generic classifier.
	TopologyRate Topology = "rate"
)

// IsValid returns true for a known topology.
func (t Topology) IsValid() bool {
	switch t {
	case TopologyAscending, TopologyInverted, TopologyRange, TopologyRate:
		return true
	}
	return false
}

// MetricFormat represents how to format a metric value for display.
type MetricFormat string

const (
	MetricFormatPercent MetricFormat = "percent" // e.g. 75.5%
	MetricFormatNumber  MetricFormat = "number"  // plain numeric
	MetricFormatSigned  MetricFormat = "signed"  // numeric with explicit sign (e.g. +120)
)

// DisplayRange is the visual min/max of a gauge. It only scales the
// display; severity comparisons always use raw values.
type DisplayRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Width returns the span of the display range.
func (d DisplayRange) Width() float64 {
	return d.Max - d.Min
}

// MetricSpec defines one metric in the dashboard's metric table, loaded
// from metrics.yaml. Per-metric behavior (topology, auto-adjust
// constants) is declared here so dispatch is a table lookup, not a
// metric-id switch.
type MetricSpec struct {
	Name        string       `yaml:"name" json:"name"`
	DisplayName string       `yaml:"display_name" json:"display_name"`
	Unit        string       `yaml:"unit" json:"unit"`
	Topology    Topology     `yaml:"topology" json:"topology"`
	Format      MetricFormat `yaml:"format,omitempty" json:"format,omitempty"`
	Display     DisplayRange `yaml:"display" json:"display"`
	// WarningSpan is the width of the warning band derived by
	// auto-adjustment for ascending/inverted metrics.
	WarningSpan float64 `yaml:"warning_span,omitempty" json:"warning_span,omitempty"`
	// Extension is the warning extension beyond the normal band on each
	// side, for range metrics.
	Extension float64 `yaml:"extension,omitempty" json:"extension,omitempty"`
	// MinSpan is the minimum accepted width of an edited normal range.
	MinSpan float64 `yaml:"min_span,omitempty" json:"min_span,omitempty"`
	// ManualOverride allows editing all six boundaries directly instead
	// of deriving warning/critical from the normal range.
	ManualOverride bool `yaml:"manual_override,omitempty" json:"manual_override,omitempty"`
}

// MetricsConfig represents the root structure of the metrics.yaml file.
type MetricsConfig struct {
	Metrics []*MetricSpec `yaml:"metrics" json:"metrics"`
}

// MetricSample is one observed value for one metric. Produced by the
// telemetry collaborator and consumed transiently; never mutated.
type MetricSample struct {
	MetricID   string    `json:"metric_id"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}
