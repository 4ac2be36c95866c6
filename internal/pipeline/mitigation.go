package pipeline

import (
	"math"

	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
)

// penetrationFloor is the lowest an effective resistance can go: even a
// fully penetrated, heavily-resisted target cannot take more than triple
// damage of that type.
const penetrationFloor = -2.0

// saturate replaces an infinity produced by a user-data divide-by-zero
// with the largest representable float64, per the numeric contract: the
// engine never emits Inf or NaN in its output.
func saturate(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(v, -1) {
		return -math.MaxFloat64
	}
	return v
}

// mitigatedDamage is stage 9's per-type result.
type mitigatedDamage struct {
	Type              conversion.DamageType
	Amount            float64
	MitigatedFraction float64
}

// applyMitigation runs stage 9's damage side: resistance penetration
// (floored), generic damage reduction, and, for physical only, armor
// mitigation via raw/(raw+armor*k). Penetration is read per-type from the
// modifier store (pen.<type>) so callers don't need to pre-compute it.
func applyMitigation(store *modifier.Store, ctx *condition.Context, byType map[conversion.DamageType]float64, target model.TargetConfig) []mitigatedDamage {
	var out []mitigatedDamage
	for _, t := range conversion.CanonicalOrder() {
		raw := byType[t]
		if raw == 0 {
			continue
		}

		res := target.Resistances[string(t)]
		pen := store.SumBase("pen."+string(t), ctx)
		resEff := res - pen
		if resEff < penetrationFloor {
			resEff = penetrationFloor
		}

		afterRes := raw * (1 - clamp(resEff, -2, 0.9)) * (1 - target.GenericDR)

		final := afterRes
		if t == conversion.Physical && target.Armor > 0 {
			k := target.EffectiveArmorK()
			armorFactor := afterRes / (afterRes + target.Armor*k)
			final = afterRes * armorFactor
		}

		final = saturate(final)
		mitigatedFraction := 1.0
		if raw != 0 {
			mitigatedFraction = 1 - final/raw
		}

		out = append(out, mitigatedDamage{Type: t, Amount: final, MitigatedFraction: mitigatedFraction})
	}
	return out
}

// hitChance implements stage 9's accuracy/evasion formula, defaulting to
// a guaranteed hit for non-attack skills (spells).
func hitChance(store *modifier.Store, ctx *condition.Context, isAttack bool, evasion float64) float64 {
	if !isAttack {
		return 1
	}
	accuracy := store.SumBase("acc.rating", ctx)
	if accuracy+evasion == 0 {
		return 1
	}
	return clamp(accuracy*1.5/(accuracy+evasion), 0, 1)
}

// ehpSeries derives the per-damage-type effective-HP vector from the
// target's life pool and the mitigated fraction observed for each type.
func ehpSeries(lifePool float64, mitigated []mitigatedDamage) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range mitigated {
		denom := 1 - m.MitigatedFraction
		if denom <= 0 {
			out[string(m.Type)] = math.MaxFloat64
			continue
		}
		out[string(m.Type)] = saturate(lifePool / denom)
	}
	return out
}
