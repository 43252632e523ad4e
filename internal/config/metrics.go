// Package config provides configuration management for the hive dashboard.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hivewatch/internal/gauge"
	"hivewatch/internal/model"
)

// LoadMetrics reads the metric table from the specified YAML file. The
// table declares each metric's topology, display range and auto-adjust
// constants; all per-metric dispatch in the dashboard is a lookup into
// this table.
func LoadMetrics(metricsPath string) ([]*model.MetricSpec, error) {
	if metricsPath == "" {
		return nil, fmt.Errorf("metrics file path is required")
	}

	if _, err := os.Stat(metricsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("metrics file not found: %s", metricsPath)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file: %w", err)
	}

	var cfg model.MetricsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse metrics file: %w", err)
	}

	if len(cfg.Metrics) == 0 {
		return nil, fmt.Errorf("no metrics defined in file: %s", metricsPath)
	}

	if err := ValidateMetrics(cfg.Metrics); err != nil {
		return nil, err
	}

	return cfg.Metrics, nil
}

// ValidateMetrics checks the metric table for the invariants the
// evaluator relies on: unique names, known topologies, valid display
// ranges, and auto-adjust constants appropriate to the topology.
func ValidateMetrics(specs []*model.MetricSpec) error {
	seen := make(map[string]bool, len(specs))

	for i, m := range specs {
		if m.Name == "" {
			return fmt.Errorf("metric at index %d has no name", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("metric %q is defined twice", m.Name)
		}
		seen[m.Name] = true

		if m.DisplayName == "" {
			return fmt.Errorf("metric %q has no display_name", m.Name)
		}
		if !m.Topology.IsValid() {
			return fmt.Errorf("metric %q has unknown topology %q", m.Name, m.Topology)
		}
		if err := gauge.ValidateDisplayRange(m.Display); err != nil {
			return fmt.Errorf("metric %q: %w", m.Name, err)
		}

		switch m.Topology {
		case model.TopologyAscending, model.TopologyInverted:
			if m.WarningSpan <= 0 {
				return fmt.Errorf("metric %q (%s) requires a positive warning_span", m.Name, m.Topology)
			}
		case model.TopologyRange:
			if m.Extension <= 0 {
				return fmt.Errorf("metric %q (range) requires a positive extension", m.Name)
			}
		case model.TopologyRate:
			// Rate metrics are evaluated by the weight evaluator and are
			// always manually configured.
			if !m.ManualOverride {
				return fmt.Errorf("metric %q (rate) must allow manual override", m.Name)
			}
		}
		if m.MinSpan < 0 {
			return fmt.Errorf("metric %q has negative min_span", m.Name)
		}
	}

	return nil
}

// MetricTable indexes metric specs by name, preserving declaration order
// for stable gauge layout.
type MetricTable struct {
	specs map[string]*model.MetricSpec
	order []string
}

// NewMetricTable builds a MetricTable from validated specs.
func NewMetricTable(specs []*model.MetricSpec) *MetricTable {
	t := &MetricTable{specs: make(map[string]*model.MetricSpec, len(specs))}
	for _, m := range specs {
		t.specs[m.Name] = m
		t.order = append(t.order, m.Name)
	}
	return t
}

// Get returns the spec for a metric name, with ok reporting whether the
// metric is declared.
func (t *MetricTable) Get(name string) (*model.MetricSpec, bool) {
	m, ok := t.specs[name]
	return m, ok
}

// Names returns metric names in declaration order.
func (t *MetricTable) Names() []string {
	return t.order
}

// Len returns the number of declared metrics.
func (t *MetricTable) Len() int {
	return len(t.order)
}
