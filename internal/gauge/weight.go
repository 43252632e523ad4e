package gauge

import (
	"fmt"
	"time"

	"hivewatch/internal/model"
)

// Default observation windows for the weight evaluator.
const (
	DefaultRobberyWindow = 1 * time.Hour
	DefaultDailyWindow   = 24 * time.Hour
)

// WeightAssessment is the result of evaluating hive weight over a sample
// window. Weight severity follows drop/gain rates, not the absolute value
// shown on the gauge, so its assessment carries the underlying rates.
type WeightAssessment struct {
	Severity     model.Severity `json:"severity"`
	DropKg       float64        `json:"drop_kg"`        // largest drop inside the robbery window
	DailyChangeG float64        `json:"daily_change_g"` // net change over the daily window, grams
	Insufficient bool           `json:"insufficient"`   // not enough samples to judge rates
}

// WeightEvaluator classifies hive weight from a window of samples using
// the apiary's rate-based weight rules.
type WeightEvaluator struct {
	rules         model.WeightRules
	robberyWindow time.Duration
	dailyWindow   time.Duration
}

// NewWeightEvaluator creates a WeightEvaluator with the default windows.
func NewWeightEvaluator(rules model.WeightRules) *WeightEvaluator {
	return &WeightEvaluator{
		rules:         rules,
		robberyWindow: DefaultRobberyWindow,
		dailyWindow:   DefaultDailyWindow,
	}
}

// NewWeightEvaluatorWithWindows creates a WeightEvaluator with custom
// robbery and daily windows.
func NewWeightEvaluatorWithWindows(rules model.WeightRules, robbery, daily time.Duration) (*WeightEvaluator, error) {
	if robbery <= 0 || daily <= 0 {
		return nil, fmt.Errorf("weight evaluator windows must be positive, got robbery=%v daily=%v", robbery, daily)
	}
	return &WeightEvaluator{rules: rules, robberyWindow: robbery, dailyWindow: daily}, nil
}

// Evaluate classifies the weight trend at time now from chronologically
// ordered samples (kilograms). A robbery-scale drop inside the robbery
// window is critical; a daily net loss beyond the warning rule is a
// warning; otherwise the hive is safe. With fewer than two samples in the
// daily window the assessment is safe with Insufficient set.
func (e *WeightEvaluator) Evaluate(samples []model.MetricSample, now time.Time) (WeightAssessment, error) {
	for i, s := range samples {
		if err := checkFinite(fmt.Sprintf("sample[%d]", i), s.Value); err != nil {
			return WeightAssessment{}, err
		}
	}

	daily := inWindow(samples, now, e.dailyWindow)
	if len(daily) < 2 {
		return WeightAssessment{Severity: model.SeveritySafe, Insufficient: true}, nil
	}

	latest := daily[len(daily)-1]
	assessment := WeightAssessment{Severity: model.SeveritySafe}

	// Net change over the daily window, in grams.
	assessment.DailyChangeG = (latest.Value - daily[0].Value) * 1000

	// Largest drop from any peak inside the robbery window to the latest
	// reading. Robbing empties a hive fast; only the short window counts.
	for _, s := range inWindow(daily, now, e.robberyWindow) {
		if drop := s.Value - latest.Value; drop > assessment.DropKg {
			assessment.DropKg = drop
		}
	}

	switch {
	case e.rules.CriticalRobberyDropKg > 0 && assessment.DropKg >= e.rules.CriticalRobberyDropKg:
		assessment.Severity = model.SeverityCritical
	case e.rules.WarningDailyLossG > 0 && assessment.DailyChangeG <= -e.rules.WarningDailyLossG:
		assessment.Severity = model.SeverityWarning
	}

	return assessment, nil
}

// HealthyGain reports whether the daily change meets the minimum gain
// expected of a productive foraging day.
func (e *WeightEvaluator) HealthyGain(a WeightAssessment) bool {
	return !a.Insufficient && a.DailyChangeG >= e.rules.NormalDailyGainMinG
}

// inWindow returns the suffix of chronologically ordered samples recorded
// within the window ending at now.
func inWindow(samples []model.MetricSample, now time.Time, window time.Duration) []model.MetricSample {
	cutoff := now.Add(-window)
	for i, s := range samples {
		if !s.RecordedAt.Before(cutoff) {
			return samples[i:]
		}
	}
	return nil
}
