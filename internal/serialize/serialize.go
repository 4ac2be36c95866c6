// Package serialize is the boundary between the external JSON envelope and
// the internal model types. Because internal/model already carries the
// envelope's own field names and shapes as JSON tags, decoding is mostly a
// direct unmarshal; the real work here is enforcing the numeric contract
// (no NaN in, no non-finite leaking unexpectedly) and formatting
// calculate_diff results for presentation.
package serialize

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/torchlit/buildcalc/internal/errors"
	"github.com/torchlit/buildcalc/internal/model"
)

// DecodeInput unmarshals a calculator input envelope from r and validates
// its numeric contract: NaN anywhere in the input is a validation error,
// never a silent propagation.
func DecodeInput(r io.Reader) (model.CalculatorInput, error) {
	var input model.CalculatorInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return model.CalculatorInput{}, errors.InvalidArgumentf("serialize: decoding input: %v", err)
	}
	if err := ValidateNumeric(input); err != nil {
		return model.CalculatorInput{}, err
	}
	return input, nil
}

// EncodeInput marshals input to w.
func EncodeInput(w io.Writer, input model.CalculatorInput) error {
	return json.NewEncoder(w).Encode(input)
}

// DecodeOutput unmarshals a calculator output envelope from r.
func DecodeOutput(r io.Reader) (model.CalculatorOutput, error) {
	var out model.CalculatorOutput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return model.CalculatorOutput{}, errors.InvalidArgumentf("serialize: decoding output: %v", err)
	}
	return out, nil
}

// EncodeOutput marshals out to w.
func EncodeOutput(w io.Writer, out model.CalculatorOutput) error {
	return json.NewEncoder(w).Encode(out)
}

// ValidateNumeric walks every f64-shaped field of input and fails with an
// InvalidArgument error naming the first NaN it finds. Infinities are not
// rejected here; the numeric contract only requires that they be
// saturated on the way out, not that they never appear in user data on
// the way in.
func ValidateNumeric(input model.CalculatorInput) error {
	check := func(path string, v float64) error {
		if math.IsNaN(v) {
			return errors.InvalidArgumentf("serialize: %s is NaN", path).WithMeta("path", path)
		}
		return nil
	}
	for k, v := range input.ContextValues {
		if err := check(fmt.Sprintf("context_values.%s", k), v); err != nil {
			return err
		}
	}
	for k, v := range input.GlobalOverrides {
		if err := check(fmt.Sprintf("global_overrides.%s", k), v); err != nil {
			return err
		}
	}
	if err := checkTarget("target_config", input.TargetConfig, check); err != nil {
		return err
	}
	if err := checkItems("items", input.Items, check); err != nil {
		return err
	}
	if err := checkSkill("active_skill", input.ActiveSkill, check); err != nil {
		return err
	}
	for i, s := range input.SupportSkills {
		if err := checkSkill(fmt.Sprintf("support_skills[%d]", i), s, check); err != nil {
			return err
		}
	}
	if input.PreviewSlot != nil {
		if err := checkItem("preview_slot.item", input.PreviewSlot.Item, check); err != nil {
			return err
		}
	}
	return nil
}

type checkFn func(path string, v float64) error

func checkTarget(path string, t model.TargetConfig, check checkFn) error {
	for _, pair := range []struct {
		name string
		v    float64
	}{
		{"defense_constant", t.DefenseConstant},
		{"generic_dr", t.GenericDR},
		{"armor", t.Armor},
		{"evasion", t.Evasion},
		{"life_pool", t.LifePool},
		{"armor_mitigation_k", t.ArmorMitigationK},
	} {
		if err := check(path+"."+pair.name, pair.v); err != nil {
			return err
		}
	}
	for k, v := range t.Resistances {
		if err := check(fmt.Sprintf("%s.resistances.%s", path, k), v); err != nil {
			return err
		}
	}
	return nil
}

func checkItems(path string, items []model.Item, check checkFn) error {
	for i, item := range items {
		if err := checkItem(fmt.Sprintf("%s[%d]", path, i), item, check); err != nil {
			return err
		}
	}
	return nil
}

func checkItem(path string, item model.Item, check checkFn) error {
	for _, s := range item.ImplicitStats {
		if err := check(path+"."+s.Key, s.Value); err != nil {
			return err
		}
	}
	for _, affix := range item.Affixes {
		for _, s := range affix.Stats {
			if err := check(fmt.Sprintf("%s.%s.%s", path, affix.ID, s.Key), s.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSkill(path string, skill model.Skill, check checkFn) error {
	for _, s := range skill.Stats {
		if err := check(path+"."+s.Key, s.Value); err != nil {
			return err
		}
	}
	for dmgType, minMax := range skill.BaseDamage {
		if err := check(fmt.Sprintf("%s.base_damage.%s.min", path, dmgType), minMax[0]); err != nil {
			return err
		}
		if err := check(fmt.Sprintf("%s.base_damage.%s.max", path, dmgType), minMax[1]); err != nil {
			return err
		}
	}
	if err := check(path+".effectiveness", skill.Effectiveness); err != nil {
		return err
	}
	if err := check(path+".base_time", skill.BaseTime); err != nil {
		return err
	}
	if err := check(path+".mana_cost", skill.ManaCost); err != nil {
		return err
	}
	if err := check(path+".mana_multiplier", skill.ManaMultiplier); err != nil {
		return err
	}
	for i, rule := range skill.ScalingRules {
		if err := check(fmt.Sprintf("%s.scaling_rules[%d].per_level", path, i), rule.PerLevel); err != nil {
			return err
		}
	}
	if skill.Cooldown != nil {
		if err := check(path+".cooldown", *skill.Cooldown); err != nil {
			return err
		}
	}
	return nil
}

// FormatDPSDiff renders a calculate_diff result's DPS delta the way a build
// planner would show it next to a gear swap: a signed integer delta and a
// signed percentage, e.g. "+412 (+8.3%)" or "-19 (-0.4%)".
func FormatDPSDiff(diff model.CalculationDiff) string {
	delta := diff.Delta["dps_theoretical"]
	base := diff.Base.DPSTheoretical
	percent := 0.0
	if base != 0 {
		percent = delta / base * 100
	}
	if delta > 0 {
		return fmt.Sprintf("+%.0f (%+.1f%%)", delta, percent)
	}
	return fmt.Sprintf("%.0f (%+.1f%%)", delta, percent)
}
