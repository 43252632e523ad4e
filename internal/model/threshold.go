// Package model provides data models for the hive dashboard.
package model

// ThresholdSet holds the six zone boundaries for one metric. A valid set
// is contiguous and order-consistent with its metric's topology: adjacent
// zones share a boundary with no gap and no overlap.
type ThresholdSet struct {
	NormalMin   float64 `json:"normal_min"`
	NormalMax   float64 `json:"normal_max"`
	WarningMin  float64 `json:"warning_min"`
	WarningMax  float64 `json:"warning_max"`
	CriticalMin float64 `json:"critical_min"`
	CriticalMax float64 `json:"critical_max"`
}

// WeightRules are the bespoke rate-based thresholds for the hive weight
// metric. They follow drop/gain rates over time windows, not the zone
// topologies used by other metrics.
type WeightRules struct {
	// CriticalRobberyDropKg is the weight drop within the robbery window
	// that signals a robbing event.
	CriticalRobberyDropKg float64 `json:"critical_robbery_drop_kg"`
	// WarningDailyLossG is the net 24h loss that raises a warning.
	WarningDailyLossG float64 `json:"warning_daily_loss_g"`
	// NormalDailyGainMinG is the minimum 24h gain considered a healthy
	// foraging day.
	NormalDailyGainMinG float64 `json:"normal_daily_gain_min_g"`
}

// ThresholdConfig is the full per-apiary threshold record fetched from
// the upstream store. It is replaced wholesale on every successful
// update; partial field mutation without re-validation is not permitted.
type ThresholdConfig struct {
	Metrics map[string]ThresholdSet `json:"metrics"`
	Weight  WeightRules             `json:"weight"`
}

// Set returns the threshold set for a metric, with ok reporting whether
// one is configured.
func (c *ThresholdConfig) Set(metricID string) (ThresholdSet, bool) {
	if c == nil || c.Metrics == nil {
		return ThresholdSet{}, false
	}
	ts, ok := c.Metrics[metricID]
	return ts, ok
}

// WithSet returns a copy of the config with one metric's set replaced.
// The receiver is left untouched so callers can treat configs as
// immutable snapshots.
func (c *ThresholdConfig) WithSet(metricID string, ts ThresholdSet) *ThresholdConfig {
	next := &ThresholdConfig{
		Metrics: make(map[string]ThresholdSet, len(c.Metrics)+1),
		Weight:  c.Weight,
	}
	for k, v := range c.Metrics {
		next.Metrics[k] = v
	}
	next.Metrics[metricID] = ts
	return next
}
