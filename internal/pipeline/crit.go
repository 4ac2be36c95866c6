package pipeline

import (
	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/modifier"
)

// defaultCritMultiplier is applied when no affix or skill contributes to
// crit.multiplier, representing the baseline "critical hits deal 150%
// damage" convention common to this genre.
const defaultCritMultiplier = 1.5

// critResult is stage 8's output: the chance actually realized (after
// lucky-crit reshaping), and the expected damage multiplier it implies.
type critResult struct {
	Chance         float64
	Multiplier     float64
	ExpectedFactor float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// calculateCrit runs stage 8. cannotCrit and lucky come from
// context_flags ("cannot_crit", "lucky"), read directly rather than
// through the modifier store since they're input-envelope flags, not
// equipment-driven modifiers.
func calculateCrit(store *modifier.Store, ctx *condition.Context, cannotCrit, lucky bool) critResult {
	if cannotCrit {
		return critResult{Chance: 0, Multiplier: defaultCritMultiplier, ExpectedFactor: 1}
	}

	base := store.SumBase("crit.chance", ctx)
	increased := store.SumIncreased("crit.chance", ctx)
	chance := clamp(base+increased, 0, 1)

	if lucky {
		chance = 1 - (1-chance)*(1-chance)
	}

	multiplier := defaultCritMultiplier + store.SumBase("crit.multiplier", ctx)
	expected := 1 + chance*(multiplier-1)

	return critResult{Chance: chance, Multiplier: multiplier, ExpectedFactor: expected}
}
