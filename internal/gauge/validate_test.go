package gauge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivewatch/internal/model"
)

func TestValidateSet_Ascending(t *testing.T) {
	valid := model.ThresholdSet{
		NormalMin: 400, NormalMax: 2000,
		WarningMin: 2000, WarningMax: 2500,
		CriticalMin: 2500, CriticalMax: 4000,
	}
	require.NoError(t, ValidateSet(valid, model.TopologyAscending))

	gap := valid
	gap.WarningMin = 2100
	err := ValidateSet(gap, model.TopologyAscending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warning min")

	disordered := valid
	disordered.WarningMax = 1500
	disordered.CriticalMin = 1500
	assert.Error(t, ValidateSet(disordered, model.TopologyAscending))
}

func TestValidateSet_Inverted(t *testing.T) {
	valid := model.ThresholdSet{
		NormalMin: 70, NormalMax: 100,
		WarningMin: 30, WarningMax: 70,
		CriticalMin: 0, CriticalMax: 30,
	}
	require.NoError(t, ValidateSet(valid, model.TopologyInverted))

	gap := valid
	gap.CriticalMax = 25
	assert.Error(t, ValidateSet(gap, model.TopologyInverted))
}

func TestValidateSet_Range(t *testing.T) {
	valid := model.ThresholdSet{
		NormalMin: 32, NormalMax: 35.5,
		WarningMin: 30, WarningMax: 38,
		CriticalMin: 30, CriticalMax: 38,
	}
	require.NoError(t, ValidateSet(valid, model.TopologyRange))

	// Warning band must envelop the normal band.
	pinched := valid
	pinched.WarningMin = 33
	assert.Error(t, ValidateSet(pinched, model.TopologyRange))

	// Critical band must envelop the warning band.
	inverted := valid
	inverted.CriticalMax = 37
	assert.Error(t, ValidateSet(inverted, model.TopologyRange))

	empty := valid
	empty.NormalMin = 35.5
	assert.Error(t, ValidateSet(empty, model.TopologyRange))
}

func TestValidateSet_NonFinite(t *testing.T) {
	bad := model.ThresholdSet{
		NormalMin: 400, NormalMax: math.NaN(),
		WarningMin: 2000, WarningMax: 2500,
		CriticalMin: 2500, CriticalMax: 4000,
	}
	err := ValidateSet(bad, model.TopologyAscending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normal_max")
}

func TestValidateSet_FloatNoiseTolerated(t *testing.T) {
	// Boundaries that differ only by float noise still count as shared.
	set := model.ThresholdSet{
		NormalMin: 0, NormalMax: 0.1 + 0.2,
		WarningMin: 0.3, WarningMax: 0.5,
		CriticalMin: 0.5, CriticalMax: 1,
	}
	assert.NoError(t, ValidateSet(set, model.TopologyAscending))
}

func TestValidateSet_UnknownTopology(t *testing.T) {
	assert.Error(t, ValidateSet(model.ThresholdSet{}, model.Topology("spiral")))
	// Rate metrics never reach the generic validator.
	assert.Error(t, ValidateSet(model.ThresholdSet{}, model.TopologyRate))
}
