package gauge

import (
	"fmt"
	"math"

	"hivewatch/internal/model"
)

// boundaryEps absorbs float noise when comparing boundaries that are
// supposed to coincide (e.g. warningMin == normalMax after
// auto-adjustment).
const boundaryEps = 1e-9

func boundariesEqual(a, b float64) bool {
	return math.Abs(a-b) <= boundaryEps
}

// ValidateSet checks that a threshold set satisfies the contiguity and
// ordering invariant for its topology: adjacent zones share a boundary
// with no gap and no overlap. Sets are validated before they are
// accepted for classification, not on every Classify call.
func ValidateSet(ts model.ThresholdSet, topology model.Topology) error {
	for name, v := range map[string]float64{
		"normal_min":   ts.NormalMin,
		"normal_max":   ts.NormalMax,
		"warning_min":  ts.WarningMin,
		"warning_max":  ts.WarningMax,
		"critical_min": ts.CriticalMin,
		"critical_max": ts.CriticalMax,
	} {
		if err := checkFinite(name, v); err != nil {
			return err
		}
	}

	switch topology {
	case model.TopologyAscending:
		if !boundariesEqual(ts.WarningMin, ts.NormalMax) {
			return fmt.Errorf("ascending set: warning min (%v) must equal normal max (%v)", ts.WarningMin, ts.NormalMax)
		}
		if !boundariesEqual(ts.CriticalMin, ts.WarningMax) {
			return fmt.Errorf("ascending set: critical min (%v) must equal warning max (%v)", ts.CriticalMin, ts.WarningMax)
		}
		if ts.NormalMax > ts.WarningMax || ts.WarningMax > ts.CriticalMax {
			return fmt.Errorf("ascending set: boundaries must be ordered normal max (%v) <= warning max (%v) <= critical max (%v)",
				ts.NormalMax, ts.WarningMax, ts.CriticalMax)
		}
		return nil

	case model.TopologyInverted:
		if !boundariesEqual(ts.WarningMax, ts.NormalMin) {
			return fmt.Errorf("inverted set: warning max (%v) must equal normal min (%v)", ts.WarningMax, ts.NormalMin)
		}
		if !boundariesEqual(ts.CriticalMax, ts.WarningMin) {
			return fmt.Errorf("inverted set: critical max (%v) must equal warning min (%v)", ts.CriticalMax, ts.WarningMin)
		}
		if ts.CriticalMin > ts.WarningMin || ts.WarningMin > ts.NormalMin {
			return fmt.Errorf("inverted set: boundaries must be ordered critical min (%v) <= warning min (%v) <= normal min (%v)",
				ts.CriticalMin, ts.WarningMin, ts.NormalMin)
		}
		return nil

	case model.TopologyRange:
		if ts.NormalMin >= ts.NormalMax {
			return fmt.Errorf("range set: normal min (%v) must be less than normal max (%v)", ts.NormalMin, ts.NormalMax)
		}
		if ts.WarningMin > ts.NormalMin || ts.NormalMax > ts.WarningMax {
			return fmt.Errorf("range set: warning band [%v, %v] must envelop the normal band [%v, %v]",
				ts.WarningMin, ts.WarningMax, ts.NormalMin, ts.NormalMax)
		}
		if ts.CriticalMin > ts.WarningMin || ts.WarningMax > ts.CriticalMax {
			return fmt.Errorf("range set: critical band [%v, %v] must envelop the warning band [%v, %v]",
				ts.CriticalMin, ts.CriticalMax, ts.WarningMin, ts.WarningMax)
		}
		return nil

	default:
		return fmt.Errorf("unknown topology %q", topology)
	}
}
