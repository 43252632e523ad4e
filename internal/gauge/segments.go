package gauge

import (
	"fmt"

	"hivewatch/internal/model"
)

// ValidateDisplayRange rejects non-finite or zero-width display ranges.
// Ranges are validated at configuration time so Percent does not have to
// guard against division by zero on every call.
func ValidateDisplayRange(dr model.DisplayRange) error {
	if err := checkFinite("display min", dr.Min); err != nil {
		return err
	}
	if err := checkFinite("display max", dr.Max); err != nil {
		return err
	}
	if dr.Width() <= 0 {
		return fmt.Errorf("display range must have positive width, got [%v, %v]", dr.Min, dr.Max)
	}
	return nil
}

// Percent maps a value onto a 0-100 gauge position, clamped to the
// display range. The severity of a value is never derived from the
// clamped position; classification always uses the raw value.
func Percent(value float64, dr model.DisplayRange) (float64, error) {
	if err := checkFinite("value", value); err != nil {
		return 0, err
	}
	if err := ValidateDisplayRange(dr); err != nil {
		return 0, err
	}

	if value < dr.Min {
		value = dr.Min
	}
	if value > dr.Max {
		value = dr.Max
	}
	return 100 * (value - dr.Min) / dr.Width(), nil
}

// Segments derives the ordered colored band layout of a gauge face:
// three segments for ascending/inverted topologies, five for range. The
// split points go through the same Percent mapping as the value position,
// so the pointer and the band it falls in can never drift apart. The
// returned segments always chain exactly from 0 to 100.
func Segments(ts model.ThresholdSet, dr model.DisplayRange, topology model.Topology) ([]model.GaugeSegment, error) {
	if err := ValidateDisplayRange(dr); err != nil {
		return nil, err
	}

	switch topology {
	case model.TopologyAscending:
		splits, err := percents(dr, ts.NormalMax, ts.WarningMax)
		if err != nil {
			return nil, err
		}
		return chain(splits, model.SeveritySafe, model.SeverityWarning, model.SeverityCritical), nil

	case model.TopologyInverted:
		splits, err := percents(dr, ts.WarningMin, ts.NormalMin)
		if err != nil {
			return nil, err
		}
		return chain(splits, model.SeverityCritical, model.SeverityWarning, model.SeveritySafe), nil

	case model.TopologyRange:
		splits, err := percents(dr, ts.CriticalMin, ts.NormalMin, ts.NormalMax, ts.CriticalMax)
		if err != nil {
			return nil, err
		}
		return chain(splits,
			model.SeverityCritical, model.SeverityWarning, model.SeveritySafe,
			model.SeverityWarning, model.SeverityCritical), nil

	default:
		return nil, fmt.Errorf("unknown topology %q", topology)
	}
}

// percents maps threshold boundaries to gauge positions.
func percents(dr model.DisplayRange, bounds ...float64) ([]float64, error) {
	out := make([]float64, 0, len(bounds))
	for _, b := range bounds {
		p, err := Percent(b, dr)
		if err != nil {
			return nil, fmt.Errorf("threshold boundary: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// chain builds contiguous segments from 0 to 100 with the given split
// points and one severity per band.
func chain(splits []float64, severities ...model.Severity) []model.GaugeSegment {
	segments := make([]model.GaugeSegment, 0, len(severities))
	start := 0.0
	for i, sev := range severities {
		stop := 100.0
		if i < len(splits) {
			stop = splits[i]
		}
		// A valid set has ordered splits; degenerate (zero-width) bands
		// are kept so the layout stays exhaustive.
		if stop < start {
			stop = start
		}
		segments = append(segments, model.GaugeSegment{Start: start, Stop: stop, Severity: sev})
		start = stop
	}
	segments[len(segments)-1].Stop = 100
	return segments
}

// SeverityAt returns the severity of the segment containing the given
// gauge position. A position exactly on a shared boundary belongs to the
// less severe of the adjacent segments, matching the classifier's
// tie-breaking rule.
func SeverityAt(segments []model.GaugeSegment, pct float64) (model.Severity, error) {
	if err := checkFinite("percent", pct); err != nil {
		return "", err
	}
	found := false
	var best model.Severity
	for _, seg := range segments {
		if pct < seg.Start || pct > seg.Stop {
			continue
		}
		if !found || best.MoreSevereThan(seg.Severity) {
			best = seg.Severity
		}
		found = true
	}
	if !found {
		return "", fmt.Errorf("position %v is outside the segment layout", pct)
	}
	return best, nil
}
