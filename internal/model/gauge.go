// Package model provides data models for the hive dashboard.
package model

import "time"

// Severity represents the classification tier of a metric value.
type Severity string

const (
	SeveritySafe     Severity = "safe"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities from least to most severe.
var severityRanks = map[Severity]int{
	SeveritySafe:     0,
	SeverityWarning:  1,
	SeverityCritical: 2,
}

// Rank returns the ordering of a severity (safe < warning < critical).
// Unknown severities rank below safe so they never win a comparison.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return -1
}

// MoreSevereThan returns true if s is strictly more severe than other.
func (s Severity) MoreSevereThan(other Severity) bool {
	return s.Rank() > other.Rank()
}

// GaugeSegment is one colored band of a gauge face, expressed as
// percentages of the display range. Segments are derived values: they are
// regenerated whenever thresholds or the display range change, never
// patched in place.
type GaugeSegment struct {
	Start    float64  `json:"start"`
	Stop     float64  `json:"stop"`
	Severity Severity `json:"severity"`
}

// GaugeView is the complete view model for one dashboard gauge.
type GaugeView struct {
	MetricID       string         `json:"metric_id"`
	DisplayName    string         `json:"display_name"`
	Unit           string         `json:"unit"`
	Value          float64        `json:"value"`
	FormattedValue string         `json:"formatted_value"`
	Percent        float64        `json:"percent"`
	Severity       Severity       `json:"severity"`
	Segments       []GaugeSegment `json:"segments"`
	// RateBased marks metrics whose severity comes from a rate evaluator,
	// not from the gauge's zone boundaries. The rendered segments are
	// display-only for such metrics.
	RateBased  bool      `json:"rate_based,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
