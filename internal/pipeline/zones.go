package pipeline

import (
	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
)

// canonicalDmgKeys lists the stat keys applyModification actually reads:
// the ungated "all types" key plus one gated key per canonical damage
// type. The multiplier breakdown sums/products over the same key set, so
// the increased and more zones draw on the same modifiers stage 6 reads.
func canonicalDmgKeys() []string {
	keys := make([]string, 0, len(conversion.CanonicalOrder())+1)
	keys = append(keys, allDamageTypesKey)
	for _, t := range conversion.CanonicalOrder() {
		keys = append(keys, "dmg."+string(t))
	}
	return keys
}

// sumAcrossDmgKeys sums query (SumBase or SumIncreased) over every
// canonical damage key, returning the total and the subset of keys that
// actually contributed.
func sumAcrossDmgKeys(query func(string, *condition.Context) float64, ctx *condition.Context) (float64, []string) {
	var total float64
	var sources []string
	for _, key := range canonicalDmgKeys() {
		v := query(key, ctx)
		if v != 0 {
			total += v
			sources = append(sources, key)
		}
	}
	return total, sources
}

// productAcrossDmgKeys multiplies ProductMore over every canonical damage
// key, returning the product and the subset of keys whose factor differs
// from the identity.
func productAcrossDmgKeys(query func(string, *condition.Context) float64, ctx *condition.Context) (float64, []string) {
	total := 1.0
	var sources []string
	for _, key := range canonicalDmgKeys() {
		v := query(key, ctx)
		total *= v
		if v != 1 {
			sources = append(sources, key)
		}
	}
	return total, sources
}

// defenseZone mirrors the original's level_constant/(armor+level_constant)
// physical defense curve: no armor means no defensive discount.
func defenseZone(target model.TargetConfig) (float64, []string) {
	if target.Armor <= 0 {
		return 1, nil
	}
	lvl := target.EffectiveDefenseConstant()
	return lvl / (target.Armor + lvl), []string{"target_config.armor"}
}

// resistanceZone averages the four elemental/chaos resistances, nets out
// penetration gathered the same way mitigation does (per type, summed),
// and floors at zero.
func resistanceZone(store *modifier.Store, ctx *condition.Context, target model.TargetConfig) (float64, []string) {
	resTypes := []conversion.DamageType{conversion.Fire, conversion.Cold, conversion.Lightning, conversion.Chaos}

	var avgRes, avgPen float64
	var sources []string
	if len(target.Resistances) > 0 {
		sources = append(sources, "target_config.resistances")
	}
	for _, t := range resTypes {
		avgRes += target.Resistances[string(t)]
		pen := store.SumBase("pen."+string(t), ctx)
		avgPen += pen
		if pen != 0 {
			sources = append(sources, "pen."+string(t))
		}
	}
	avgRes /= float64(len(resTypes))
	avgPen /= float64(len(resTypes))

	zone := 1 - avgRes + avgPen
	if zone < 0 {
		zone = 0
	}
	return zone, sources
}

// vulnerabilityZone reads the target's flat "increased damage taken"
// contribution, defaulting to no vulnerability.
func vulnerabilityZone(store *modifier.Store, ctx *condition.Context) (float64, []string) {
	v := store.SumBase("target.increased_damage_taken", ctx)
	if v == 0 {
		return 1, nil
	}
	return 1 + v, []string{"target.increased_damage_taken"}
}

// mechanicsZone reads the flat bonus mechanics (blessings, stacking
// procs) contribute directly to "more damage" outside the ordinary
// increased/more stat namespace.
func mechanicsZone(store *modifier.Store, ctx *condition.Context) (float64, []string) {
	v := store.SumBase("mechanics.more.dmg", ctx)
	if v <= 0 {
		return 1, nil
	}
	return 1 + v, []string{"mechanics.more.dmg"}
}

// buildMultiplierBreakdown assembles the additive multiplier-zone view of
// a single hit, for a planner UI to explain where a damage number came
// from without re-deriving the pipeline's math client-side. The base,
// crit, speed and hit zones carry the values Run computed. The other zones
// are summaries and can differ from the per-type factors Run applied: the
// increased zone is 1 plus the sum over every damage key, the defense zone
// uses the level-constant curve rather than the armor mitigation formula,
// the resistance zone averages the four resistances, and the mechanics
// zone reports mechanics.more.dmg, which no stage applies to the hit. This
// function only re-reads stat-store state; it never changes the result.
func buildMultiplierBreakdown(
	store *modifier.Store,
	ctx *condition.Context,
	baseDamage float64,
	rate float64,
	hit float64,
	crit critResult,
	target model.TargetConfig,
) []model.MultiplierBreakdown {
	zones := make([]model.MultiplierBreakdown, 0, 10)

	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneBase,
		Multiplier: baseDamage,
		Sources:    []string{"base_damage"},
	})

	incTotal, incSources := sumAcrossDmgKeys(store.SumIncreased, ctx)
	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneIncreased,
		Multiplier: 1 + incTotal,
		Sources:    incSources,
	})

	moreTotal, moreSources := productAcrossDmgKeys(store.ProductMore, ctx)
	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneMore,
		Multiplier: moreTotal,
		Sources:    moreSources,
	})

	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneCrit,
		Multiplier: crit.ExpectedFactor,
		Sources:    []string{"crit.chance", "crit.multiplier"},
	})

	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneSpeed,
		Multiplier: rate,
		Sources:    []string{"rate"},
	})

	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneHit,
		Multiplier: hit,
		Sources:    []string{"hit.chance"},
	})

	defenseVal, defenseSources := defenseZone(target)
	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneDefense,
		Multiplier: defenseVal,
		Sources:    defenseSources,
	})

	resistanceVal, resistanceSources := resistanceZone(store, ctx, target)
	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneResistance,
		Multiplier: resistanceVal,
		Sources:    resistanceSources,
	})

	vulnVal, vulnSources := vulnerabilityZone(store, ctx)
	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneVulnerable,
		Multiplier: vulnVal,
		Sources:    vulnSources,
	})

	mechVal, mechSources := mechanicsZone(store, ctx)
	zones = append(zones, model.MultiplierBreakdown{
		Zone:       model.ZoneMechanics,
		Multiplier: mechVal,
		Sources:    mechSources,
	})

	return zones
}
