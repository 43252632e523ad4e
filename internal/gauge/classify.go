// Package gauge implements the threshold classification and gauge layout
// rules for hive metrics. Everything here is pure: each call takes its
// full input explicitly and returns the same output for the same input,
// so callers need no locking around it.
package gauge

import (
	"fmt"
	"math"

	"hivewatch/internal/model"
)

// checkFinite rejects NaN and ±Inf inputs with an error naming the
// offending argument. Values are never silently coerced or clamped.
func checkFinite(name string, v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%s must be finite, got NaN", name)
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite, got %v", name, v)
	}
	return nil
}

// Classify returns the severity tier for a metric value under the given
// threshold set and topology. Boundary ties always resolve to the safer
// zone. Classify assumes a set that passed ValidateSet; it does not
// re-validate on every call.
func Classify(value float64, ts model.ThresholdSet, topology model.Topology) (model.Severity, error) {
	if err := checkFinite("value", value); err != nil {
		return "", err
	}

	switch topology {
	case model.TopologyAscending:
		// Normal is the low end; no lower bound concern.
		if value <= ts.NormalMax {
			return model.SeveritySafe, nil
		}
		if value <= ts.WarningMax {
			return model.SeverityWarning, nil
		}
		return model.SeverityCritical, nil

	case model.TopologyInverted:
		// Mirror of ascending: critical is the low extreme.
		if value < ts.WarningMin {
			return model.SeverityCritical, nil
		}
		if value < ts.NormalMin {
			return model.SeverityWarning, nil
		}
		return model.SeveritySafe, nil

	case model.TopologyRange:
		// Critical bounds are the outer envelope, so they are checked
		// first; anything inside the envelope but outside normal is
		// warning by elimination. This keeps the three zones exhaustive
		// and non-overlapping.
		if value < ts.CriticalMin || value > ts.CriticalMax {
			return model.SeverityCritical, nil
		}
		if value >= ts.NormalMin && value <= ts.NormalMax {
			return model.SeveritySafe, nil
		}
		return model.SeverityWarning, nil

	default:
		return "", fmt.Errorf("unknown topology %q", topology)
	}
}
