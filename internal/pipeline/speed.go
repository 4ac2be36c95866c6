package pipeline

import (
	"math"

	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
)

// calculateRate runs stage 7: the skill's base time is converted to a rate,
// scaled by the attack-or-cast speed family's (increased, more) factor,
// or overridden outright if a global override targets that family's
// key, and capped by any cooldown.
func calculateRate(store *modifier.Store, ctx *condition.Context, skill model.Skill) float64 {
	family := "speed.cast"
	if skill.IsAttack {
		family = "speed.attack"
	}

	baseTime := skill.BaseTime
	if baseTime == 0 {
		baseTime = 1
	}

	multiplier, ok := store.Override(family, ctx)
	if !ok {
		multiplier = (1 + store.SumIncreased(family, ctx)) * store.ProductMore(family, ctx)
	}

	rate := (1 / baseTime) * multiplier
	if skill.Cooldown != nil && *skill.Cooldown > 0 {
		cooldownRate := 1.0 / (*skill.Cooldown)
		rate = math.Min(rate, cooldownRate)
	}
	return rate
}
