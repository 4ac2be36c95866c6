package pipeline

import (
	"regexp"
	"strconv"

	rpgdice "github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
)

// dieFaceValuePattern extracts the individual face value rolled for a single-die
// roll out of the toolkit's human-readable description (e.g.
// "1d12[7]=7"), the same regex-extraction technique a dice-session
// orchestrator uses to recover individual die faces from a multi-die roll
// description.
var dieFaceValuePattern = regexp.MustCompile(`\[(\d+)\]`)

// rollVariance maps a [min, max] damage range onto a single die of size
// (max-min+1) and shifts the result back into range, so a hover-latency
// damage preview can show a realized roll instead of always the average.
func rollVariance(min, max float64) (float64, error) {
	if max <= min {
		return min, nil
	}
	size := int(max-min) + 1
	roll, err := rpgdice.NewRoll(1, size)
	if err != nil {
		return 0, err
	}
	value := int(roll.GetValue())
	if match := dieFaceValuePattern.FindStringSubmatch(roll.GetDescription()); match != nil {
		if parsed, err := strconv.Atoi(match[1]); err == nil {
			value = parsed
		}
	}
	return min + float64(value) - 1, nil
}

func average(min, max float64) float64 {
	return (min + max) / 2
}

// levelScalingMultiplier applies the default per-level growth curve (no
// bonus through level 20, +10%/level from 21-30, +8%/level beyond 30)
// unless the skill carries explicit scaling rules, in which case those
// rules are applied cumulatively from their declared thresholds instead.
func levelScalingMultiplier(level int, rules []model.SkillScalingRule) float64 {
	if len(rules) > 0 {
		bonus := 0.0
		for _, r := range rules {
			if level > r.FromLevel {
				bonus += float64(level-r.FromLevel) * r.PerLevel
			}
		}
		return 1 + bonus
	}

	bonus := 0.0
	switch {
	case level > 30:
		bonus += 10 * 0.10
		bonus += float64(level-30) * 0.08
	case level > 20:
		bonus += float64(level-20) * 0.10
	}
	return 1 + bonus
}

// calculateBaseDamage runs stage 3: for each canonical damage type, roll
// (or average) the aggregated min/max range, scale by skill effectiveness
// and level, and return the per-type base amounts.
func calculateBaseDamage(store *modifier.Store, ctx *condition.Context, skill model.Skill, useVariance bool) (map[conversion.DamageType]float64, error) {
	scaling := levelScalingMultiplier(skill.Level, skill.ScalingRules)
	effectiveness := skill.Effectiveness
	if effectiveness == 0 {
		effectiveness = 1
	}
	out := make(map[conversion.DamageType]float64)

	for _, t := range conversion.CanonicalOrder() {
		key := string(t)
		min := store.SumBase("dmg."+key+".min", ctx)
		max := store.SumBase("dmg."+key+".max", ctx)
		if min == 0 && max == 0 {
			continue
		}

		var rolled float64
		if useVariance {
			v, err := rollVariance(min, max)
			if err != nil {
				return nil, err
			}
			rolled = v
		} else {
			rolled = average(min, max)
		}

		out[t] = rolled * effectiveness * scaling
	}
	return out, nil
}
