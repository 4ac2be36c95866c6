package serialize_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/serialize"
)

func TestDecodeInputRoundTrip(t *testing.T) {
	input := model.CalculatorInput{
		ContextValues: map[string]float64{"rage": 3},
		ActiveSkill: model.Skill{
			ID: "fireball", Level: 1, Effectiveness: 1,
			BaseDamage: map[string][2]float64{"fire": {10, 20}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, serialize.EncodeInput(&buf, input))

	decoded, err := serialize.DecodeInput(&buf)
	require.NoError(t, err)
	assert.Equal(t, input.ActiveSkill.ID, decoded.ActiveSkill.ID)
	assert.Equal(t, input.ContextValues["rage"], decoded.ContextValues["rage"])
}

func TestDecodeInputRejectsNaNContextValue(t *testing.T) {
	input := model.CalculatorInput{
		ContextValues: map[string]float64{"bad": math.NaN()},
		ActiveSkill:   model.Skill{ID: "fireball"},
	}
	var buf bytes.Buffer
	require.NoError(t, serialize.EncodeInput(&buf, input))

	_, err := serialize.DecodeInput(&buf)
	require.Error(t, err)
}

func TestValidateNumericRejectsNaNInAffixStat(t *testing.T) {
	input := model.CalculatorInput{
		ActiveSkill: model.Skill{ID: "fireball"},
		Items: []model.Item{
			{
				ID: "weapon",
				Affixes: []model.Affix{
					{ID: "broken", Stats: []model.Stat{{Key: "mod.inc.dmg.fire", Value: math.NaN()}}},
				},
			},
		},
	}
	err := serialize.ValidateNumeric(input)
	require.Error(t, err)
}

func TestValidateNumericAcceptsCleanInput(t *testing.T) {
	input := model.CalculatorInput{
		TargetConfig: model.TargetConfig{Armor: 100, Resistances: map[string]float64{"fire": 0.5}},
		ActiveSkill:  model.Skill{ID: "fireball", Effectiveness: 1},
	}
	assert.NoError(t, serialize.ValidateNumeric(input))
}

func TestFormatDPSDiffPositive(t *testing.T) {
	diff := model.CalculationDiff{
		Base:  model.CalculatorOutput{DPSTheoretical: 1000},
		Delta: map[string]float64{"dps_theoretical": 83},
	}
	assert.Equal(t, "+83 (+8.3%)", serialize.FormatDPSDiff(diff))
}

func TestFormatDPSDiffNegative(t *testing.T) {
	diff := model.CalculationDiff{
		Base:  model.CalculatorOutput{DPSTheoretical: 1000},
		Delta: map[string]float64{"dps_theoretical": -19},
	}
	assert.Equal(t, "-19 (-1.9%)", serialize.FormatDPSDiff(diff))
}

func TestFormatDPSDiffZeroBase(t *testing.T) {
	diff := model.CalculationDiff{
		Base:  model.CalculatorOutput{DPSTheoretical: 0},
		Delta: map[string]float64{"dps_theoretical": 0},
	}
	assert.Equal(t, "0 (+0.0%)", serialize.FormatDPSDiff(diff))
}
