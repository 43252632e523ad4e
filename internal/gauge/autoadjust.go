package gauge

import (
	"fmt"
	"math"
	"strings"

	"hivewatch/internal/model"
)

// FieldError is a validation failure tagged with the field that caused
// it, so the configuration UI can highlight the offending input instead
// of showing a blanket message.
type FieldError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is a collection of field validation errors.
type FieldErrors []*FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("threshold validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// ValidateNormalRange checks a user-edited normal range against the
// metric's display range and minimum span. Violations come back as
// field-tagged errors, never as silent clamping.
func ValidateNormalRange(normalMin, normalMax float64, spec *model.MetricSpec) error {
	var errs FieldErrors

	if err := checkFinite("normal_min", normalMin); err != nil {
		errs = append(errs, &FieldError{Field: "normal_min", Tag: "finite", Value: normalMin, Message: err.Error()})
	}
	if err := checkFinite("normal_max", normalMax); err != nil {
		errs = append(errs, &FieldError{Field: "normal_max", Tag: "finite", Value: normalMax, Message: err.Error()})
	}
	if len(errs) > 0 {
		return errs
	}

	if normalMin >= normalMax {
		errs = append(errs, &FieldError{
			Field:   "normal_min",
			Tag:     "range_order",
			Value:   normalMin,
			Message: fmt.Sprintf("normal min (%v) must be less than normal max (%v)", normalMin, normalMax),
		})
	}
	if normalMin < spec.Display.Min || normalMin > spec.Display.Max {
		errs = append(errs, &FieldError{
			Field:   "normal_min",
			Tag:     "display_bounds",
			Value:   normalMin,
			Message: fmt.Sprintf("normal min (%v) must be within display range [%v, %v]", normalMin, spec.Display.Min, spec.Display.Max),
		})
	}
	if normalMax < spec.Display.Min || normalMax > spec.Display.Max {
		errs = append(errs, &FieldError{
			Field:   "normal_max",
			Tag:     "display_bounds",
			Value:   normalMax,
			Message: fmt.Sprintf("normal max (%v) must be within display range [%v, %v]", normalMax, spec.Display.Min, spec.Display.Max),
		})
	}
	if minSpan := spec.MinSpan; minSpan > 0 && normalMax-normalMin < minSpan {
		errs = append(errs, &FieldError{
			Field:   "normal_max",
			Tag:     "min_span",
			Value:   normalMax - normalMin,
			Message: fmt.Sprintf("normal range span (%v) must be at least %v %s", normalMax-normalMin, minSpan, spec.Unit),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AutoAdjust derives warning and critical boundaries from a user-edited
// normal range, keeping the resulting set contiguous for the metric's
// topology. Used for metrics that do not allow manual override.
func AutoAdjust(normalMin, normalMax float64, spec *model.MetricSpec) (model.ThresholdSet, error) {
	if err := ValidateNormalRange(normalMin, normalMax, spec); err != nil {
		return model.ThresholdSet{}, err
	}

	dr := spec.Display
	ts := model.ThresholdSet{NormalMin: normalMin, NormalMax: normalMax}

	switch spec.Topology {
	case model.TopologyAscending:
		ts.WarningMin = normalMax
		ts.WarningMax = math.Min(dr.Max, normalMax+spec.WarningSpan)
		ts.CriticalMin = ts.WarningMax
		ts.CriticalMax = dr.Max

	case model.TopologyInverted:
		ts.WarningMax = normalMin
		ts.WarningMin = math.Max(dr.Min, normalMin-spec.WarningSpan)
		ts.CriticalMax = ts.WarningMin
		ts.CriticalMin = dr.Min

	case model.TopologyRange:
		ts.WarningMin = math.Max(dr.Min, normalMin-spec.Extension)
		ts.WarningMax = math.Min(dr.Max, normalMax+spec.Extension)
		// Critical starts exactly where warning starts for range metrics;
		// the warning band is informational on the configuration screen.
		ts.CriticalMin = ts.WarningMin
		ts.CriticalMax = ts.WarningMax

	default:
		return model.ThresholdSet{}, fmt.Errorf("auto-adjustment does not apply to topology %q", spec.Topology)
	}

	return ts, nil
}
