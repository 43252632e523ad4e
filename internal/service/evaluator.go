// Package service provides the business logic services for the hive
// dashboard: snapshot evaluation, state storage and upstream polling.
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hivewatch/internal/config"
	"hivewatch/internal/gauge"
	"hivewatch/internal/model"
)

// EvaluationResult contains the complete evaluation of one telemetry
// snapshot: the gauge view models for every metric, plus the alerts
// raised by warning/critical classifications.
type EvaluationResult struct {
	HiveID      string              `json:"hive_id"`
	Gauges      []*model.GaugeView  `json:"gauges"`
	Alerts      []*model.Alert      `json:"alerts"`
	Summary     *model.AlertSummary `json:"summary"`
	EvaluatedAt time.Time           `json:"evaluated_at"`
}

// Gauge returns the view for a single metric, or nil if absent.
func (r *EvaluationResult) Gauge(metricID string) *model.GaugeView {
	for _, g := range r.Gauges {
		if g.MetricID == metricID {
			return g
		}
	}
	return nil
}

// Evaluator turns telemetry snapshots into gauge views and alerts. It
// holds no mutable state: every call takes the full snapshot and
// threshold config explicitly.
type Evaluator struct {
	table  *config.MetricTable
	weight *gauge.WeightEvaluator
	logger zerolog.Logger
}

// NewEvaluator creates an Evaluator over the metric table. weightEval may
// be nil when weight history is unavailable (e.g. one-shot exports); the
// weight gauge is then marked insufficient.
func NewEvaluator(table *config.MetricTable, weightEval *gauge.WeightEvaluator, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		table:  table,
		weight: weightEval,
		logger: logger.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate classifies every metric in the reading against the threshold
// config and derives its gauge layout. weightHistory supplies the sample
// window for the rate-based weight metric.
func (e *Evaluator) Evaluate(
	reading *model.TelemetryReading,
	thresholds *model.ThresholdConfig,
	weightHistory []model.MetricSample,
) (*EvaluationResult, error) {
	if reading == nil {
		return nil, fmt.Errorf("telemetry reading is required")
	}
	if thresholds == nil {
		return nil, fmt.Errorf("threshold config is required")
	}

	result := &EvaluationResult{
		HiveID:      reading.HiveID,
		Gauges:      make([]*model.GaugeView, 0, e.table.Len()),
		Alerts:      make([]*model.Alert, 0),
		EvaluatedAt: time.Now(),
	}

	for _, name := range e.table.Names() {
		spec, _ := e.table.Get(name)

		sample, ok := reading.Sample(name)
		if !ok {
			e.logger.Warn().Str("metric", name).Msg("metric declared in table but absent from telemetry")
			continue
		}

		view, err := e.evaluateMetric(spec, sample, thresholds, weightHistory)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", name, err)
		}
		result.Gauges = append(result.Gauges, view)
		classifications.WithLabelValues(name, string(view.Severity)).Inc()

		if view.Severity != model.SeveritySafe {
			result.Alerts = append(result.Alerts, e.buildAlert(reading.HiveID, spec, view))
		}
	}

	result.Summary = model.NewAlertSummary(result.Alerts)

	e.logger.Debug().
		Str("hive", reading.HiveID).
		Int("gauges", len(result.Gauges)).
		Int("alerts", result.Summary.TotalAlerts).
		Msg("snapshot evaluated")

	return result, nil
}

// evaluateMetric builds the gauge view for one sample.
func (e *Evaluator) evaluateMetric(
	spec *model.MetricSpec,
	sample model.MetricSample,
	thresholds *model.ThresholdConfig,
	weightHistory []model.MetricSample,
) (*model.GaugeView, error) {
	ts, ok := thresholds.Set(spec.Name)
	if !ok {
		return nil, fmt.Errorf("no threshold set configured")
	}

	pct, err := gauge.Percent(sample.Value, spec.Display)
	if err != nil {
		return nil, err
	}
	segments, err := gauge.Segments(ts, spec.Display, segmentTopology(spec.Topology))
	if err != nil {
		return nil, err
	}

	view := &model.GaugeView{
		MetricID:       spec.Name,
		DisplayName:    spec.DisplayName,
		Unit:           spec.Unit,
		Value:          sample.Value,
		FormattedValue: formatValue(spec, sample.Value),
		Percent:        pct,
		Segments:       segments,
		RecordedAt:     sample.RecordedAt,
	}

	if spec.Topology == model.TopologyRate {
		// Weight severity follows drop rate, not the absolute value the
		// gauge shows; the segments stay display-only.
		view.RateBased = true
		view.Severity = model.SeveritySafe
		if e.weight != nil {
			assessment, err := e.weight.Evaluate(weightHistory, sample.RecordedAt)
			if err != nil {
				return nil, err
			}
			view.Severity = assessment.Severity
		}
		return view, nil
	}

	severity, err := gauge.Classify(sample.Value, ts, spec.Topology)
	if err != nil {
		return nil, err
	}
	view.Severity = severity
	return view, nil
}

// buildAlert creates an alert for a warning/critical gauge view.
func (e *Evaluator) buildAlert(hiveID string, spec *model.MetricSpec, view *model.GaugeView) *model.Alert {
	return &model.Alert{
		ID:                uuid.NewString(),
		HiveID:            hiveID,
		MetricID:          spec.Name,
		MetricDisplayName: spec.DisplayName,
		CurrentValue:      view.Value,
		FormattedValue:    view.FormattedValue,
		Severity:          view.Severity,
		State:             model.AlertTriggered,
		Message:           buildAlertMessage(spec, view),
		At:                view.RecordedAt,
	}
}

// buildAlertMessage creates a human-readable alert message.
func buildAlertMessage(spec *model.MetricSpec, view *model.GaugeView) string {
	level := "warning"
	if view.Severity == model.SeverityCritical {
		level = "critical"
	}
	return fmt.Sprintf("%s %s: %s", spec.DisplayName, level, view.FormattedValue)
}

// segmentTopology maps rate-based metrics onto the range segment shape.
// The weight gauge keeps the familiar band layout even though its
// severity is rate-derived; RateBased on the view flags the mismatch.
func segmentTopology(t model.Topology) model.Topology {
	if t == model.TopologyRate {
		return model.TopologyRange
	}
	return t
}

// formatValue formats a raw metric value per the spec's format type.
func formatValue(spec *model.MetricSpec, value float64) string {
	switch spec.Format {
	case model.MetricFormatPercent:
		return fmt.Sprintf("%.1f%%", value)
	case model.MetricFormatSigned:
		return fmt.Sprintf("%+.0f %s", value, spec.Unit)
	default:
		if spec.Unit == "" {
			return fmt.Sprintf("%.1f", value)
		}
		return fmt.Sprintf("%.1f %s", value, spec.Unit)
	}
}
