package gauge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivewatch/internal/model"
)

func co2Spec() *model.MetricSpec {
	return &model.MetricSpec{
		Name:        model.MetricCO2,
		DisplayName: "CO2",
		Unit:        "ppm",
		Topology:    model.TopologyAscending,
		Display:     model.DisplayRange{Min: 0, Max: 4000},
		WarningSpan: 500,
		MinSpan:     1,
	}
}

func batterySpec() *model.MetricSpec {
	return &model.MetricSpec{
		Name:        model.MetricBattery,
		DisplayName: "Battery",
		Unit:        "%",
		Topology:    model.TopologyInverted,
		Display:     model.DisplayRange{Min: 0, Max: 100},
		WarningSpan: 20,
		MinSpan:     5,
	}
}

func temperatureSpec() *model.MetricSpec {
	return &model.MetricSpec{
		Name:        model.MetricTemperature,
		DisplayName: "Brood Temperature",
		Unit:        "°C",
		Topology:    model.TopologyRange,
		Display:     model.DisplayRange{Min: 15, Max: 45},
		Extension:   5,
		MinSpan:     1,
	}
}

func TestAutoAdjust_Ascending(t *testing.T) {
	ts, err := AutoAdjust(400, 1800, co2Spec())
	require.NoError(t, err)

	assert.Equal(t, 1800.0, ts.WarningMin)
	assert.Equal(t, 2300.0, ts.WarningMax) // normal max + 500 ppm span
	assert.Equal(t, 2300.0, ts.CriticalMin)
	assert.Equal(t, 4000.0, ts.CriticalMax)

	require.NoError(t, ValidateSet(ts, model.TopologyAscending))
}

func TestAutoAdjust_AscendingClampedToDisplayMax(t *testing.T) {
	ts, err := AutoAdjust(400, 3800, co2Spec())
	require.NoError(t, err)

	// 3800 + 500 would exceed the display range.
	assert.Equal(t, 4000.0, ts.WarningMax)
	assert.Equal(t, 4000.0, ts.CriticalMin)
	assert.Equal(t, 4000.0, ts.CriticalMax)

	require.NoError(t, ValidateSet(ts, model.TopologyAscending))
}

func TestAutoAdjust_Inverted(t *testing.T) {
	ts, err := AutoAdjust(70, 100, batterySpec())
	require.NoError(t, err)

	assert.Equal(t, 70.0, ts.WarningMax)
	assert.Equal(t, 50.0, ts.WarningMin) // normal min - 20 point span
	assert.Equal(t, 50.0, ts.CriticalMax)
	assert.Equal(t, 0.0, ts.CriticalMin)

	require.NoError(t, ValidateSet(ts, model.TopologyInverted))
}

func TestAutoAdjust_Range(t *testing.T) {
	ts, err := AutoAdjust(32, 35.5, temperatureSpec())
	require.NoError(t, err)

	assert.Equal(t, 27.0, ts.WarningMin)
	assert.Equal(t, 40.5, ts.WarningMax)
	// Critical begins exactly where warning begins for range metrics.
	assert.Equal(t, ts.WarningMin, ts.CriticalMin)
	assert.Equal(t, ts.WarningMax, ts.CriticalMax)

	require.NoError(t, ValidateSet(ts, model.TopologyRange))
}

func TestAutoAdjust_RangeClampedToDisplay(t *testing.T) {
	ts, err := AutoAdjust(16, 44, temperatureSpec())
	require.NoError(t, err)

	assert.Equal(t, 15.0, ts.WarningMin)
	assert.Equal(t, 45.0, ts.WarningMax)

	require.NoError(t, ValidateSet(ts, model.TopologyRange))
}

func TestAutoAdjust_RejectsRateTopology(t *testing.T) {
	spec := &model.MetricSpec{
		Name:     model.MetricWeight,
		Topology: model.TopologyRate,
		Display:  model.DisplayRange{Min: 0, Max: 120},
	}
	_, err := AutoAdjust(40, 80, spec)
	assert.Error(t, err)
}

// TestAutoAdjust_RoundTrip runs auto-adjustment across edited normal
// ranges for every topology and checks the resulting set always passes
// validation (spec contiguity invariant).
func TestAutoAdjust_RoundTrip(t *testing.T) {
	specs := []*model.MetricSpec{co2Spec(), batterySpec(), temperatureSpec()}

	for _, spec := range specs {
		t.Run(spec.Name, func(t *testing.T) {
			width := spec.Display.Width()
			for lo := 0.0; lo < 0.9; lo += 0.1 {
				for hi := lo + 0.1; hi <= 1.0; hi += 0.1 {
					normalMin := spec.Display.Min + lo*width
					normalMax := spec.Display.Min + hi*width
					if normalMax-normalMin < spec.MinSpan {
						continue
					}

					ts, err := AutoAdjust(normalMin, normalMax, spec)
					require.NoError(t, err, "normal [%v, %v]", normalMin, normalMax)
					assert.NoError(t, ValidateSet(ts, spec.Topology), "normal [%v, %v]", normalMin, normalMax)
				}
			}
		})
	}
}

func TestValidateNormalRange_Violations(t *testing.T) {
	spec := batterySpec()

	tests := []struct {
		name      string
		min, max  float64
		wantField string
		wantTag   string
	}{
		{"min not below max", 80, 80, "normal_min", "range_order"},
		{"inverted bounds", 90, 70, "normal_min", "range_order"},
		{"min below display", -5, 50, "normal_min", "display_bounds"},
		{"max above display", 50, 110, "normal_max", "display_bounds"},
		{"span too narrow", 70, 72, "normal_max", "min_span"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNormalRange(tt.min, tt.max, spec)
			require.Error(t, err)

			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			found := false
			for _, fe := range fieldErrs {
				if fe.Field == tt.wantField && fe.Tag == tt.wantTag {
					found = true
				}
			}
			assert.True(t, found, "expected %s error on %s, got %v", tt.wantTag, tt.wantField, err)
		})
	}
}

func TestValidateNormalRange_NonFinite(t *testing.T) {
	err := ValidateNormalRange(math.NaN(), 50, batterySpec())
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "normal_min", fieldErrs[0].Field)
	assert.Equal(t, "finite", fieldErrs[0].Tag)
}

func TestValidateSet_Violations(t *testing.T) {
	// Gap between normal and warning in an ascending set.
	gap := co2Thresholds()
	gap.WarningMin = 2500
	assert.Error(t, ValidateSet(gap, model.TopologyAscending))

	// Overlap in an inverted set.
	overlap := batteryThresholds()
	overlap.WarningMax = 75
	assert.Error(t, ValidateSet(overlap, model.TopologyInverted))

	// Range set whose warning band does not envelop normal.
	pinched := temperatureThresholds()
	pinched.WarningMin = 33
	assert.Error(t, ValidateSet(pinched, model.TopologyRange))

	// Non-finite boundary.
	bad := co2Thresholds()
	bad.CriticalMax = math.Inf(1)
	assert.Error(t, ValidateSet(bad, model.TopologyAscending))
}

func TestValidateSet_AcceptsSpecExamples(t *testing.T) {
	assert.NoError(t, ValidateSet(co2Thresholds(), model.TopologyAscending))
	assert.NoError(t, ValidateSet(batteryThresholds(), model.TopologyInverted))
	assert.NoError(t, ValidateSet(temperatureThresholds(), model.TopologyRange))
}
