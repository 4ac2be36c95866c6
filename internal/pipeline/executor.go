// Package pipeline runs the ordered sequence of damage-calculation stages
// (base damage, conversion, modification, speed, crit, mitigation) against
// a prepared modifier store, producing the output envelope.
package pipeline

import (
	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/stat"
	"github.com/torchlit/buildcalc/internal/tags"
)

// Executor runs the pipeline against a shared tag registry and the
// conversion engine built from it. Both are process-wide and reused across
// calculation calls.
type Executor struct {
	registry *tags.Registry
	engine   *conversion.Engine
}

// NewExecutor builds an executor bound to registry, constructing the
// conversion engine's identity-tag table up front.
func NewExecutor(registry *tags.Registry) (*Executor, error) {
	engine, err := conversion.NewEngine(registry)
	if err != nil {
		return nil, err
	}
	return &Executor{registry: registry, engine: engine}, nil
}

// Run executes stages 3 through 9 against prepared and skill, returning the
// output envelope. trace, if non-nil, is appended to as each stage runs.
func (e *Executor) Run(prepared *stat.PreparedContext, skill model.Skill, input model.CalculatorInput, trace *Trace) (model.CalculatorOutput, error) {
	ctx := buildContext(prepared, input)

	base, err := calculateBaseDamage(prepared.Store, ctx, skill, input.VarianceRoll)
	if err != nil {
		return model.CalculatorOutput{}, err
	}
	trace.record("base_damage", "rolled base damage per type", stringKeyedFloats(base), nil)

	extraAs, conversions := extractConversionRules(prepared.Store, ctx)
	pool := e.engine.Process(base, prepared.ActiveTags, extraAs, conversions)
	trace.record("conversion", "applied extra-as then conversion rules", nil, poolTypeNames(pool))

	modified := applyModification(prepared.Store, e.registry, ctx, pool)
	afterMod := totalByType(modified)
	trace.record("modification", "applied increased/more per retained provenance tag", stringKeyedFloats(afterMod), nil)

	rate := calculateRate(prepared.Store, ctx, skill)
	trace.record("speed", "resolved attack/cast rate", map[string]float64{"rate": rate}, nil)

	cannotCrit := input.ContextFlags["cannot_crit"]
	lucky := input.ContextFlags["lucky"]
	crit := calculateCrit(prepared.Store, ctx, cannotCrit, lucky)
	trace.record("crit", "resolved crit chance and multiplier", map[string]float64{
		"chance": crit.Chance, "multiplier": crit.Multiplier, "expected_factor": crit.ExpectedFactor,
	}, nil)

	mitigated := applyMitigation(prepared.Store, ctx, afterMod, prepared.Target)
	byType := make(map[string]float64, len(mitigated))
	hitDamage := 0.0
	for _, m := range mitigated {
		byType[string(m.Type)] = m.Amount
		hitDamage += m.Amount
	}
	trace.record("mitigation", "applied resistance, generic DR, and armor", map[string]float64{"total": hitDamage}, nil)

	evasion := prepared.Target.Evasion
	hit := hitChance(prepared.Store, ctx, skill.IsAttack, evasion)

	dpsTheoretical := hitDamage * rate
	dpsEffective := dpsTheoretical * hit * crit.ExpectedFactor

	breakdown := model.DamageBreakdown{
		ByType:          byType,
		BaseDamage:      sumFloats(base),
		TotalIncreased:  prepared.Store.SumIncreased(allDamageTypesKey, ctx),
		TotalMore:       prepared.Store.ProductMore(allDamageTypesKey, ctx),
		AfterConversion: toBreakdownHistory(modified),
		Multipliers:     buildMultiplierBreakdown(prepared.Store, ctx, sumFloats(base), rate, hit, crit, prepared.Target),
	}

	out := model.CalculatorOutput{
		RequestID:       trace.requestID(),
		DPSTheoretical:  dpsTheoretical,
		DPSEffective:    dpsEffective,
		HitDamage:       hitDamage,
		Rate:            rate,
		CritChance:      crit.Chance,
		CritMultiplier:  crit.Multiplier,
		HitChance:       hit,
		EHPSeries:       ehpSeries(prepared.Target.LifePool, mitigated),
		DamageBreakdown: breakdown,
		DebugTrace:      trace.entries(),
	}
	return out, nil
}

// buildContext assembles the evaluation context shared by every stage:
// the aggregator's active tag-set, the raw context flags and values, and
// the mechanic per-stack derivatives merged into Values so a modifier's
// PerStat can reference "per_<mechanicID>" as an ordinary numeric reading.
func buildContext(prepared *stat.PreparedContext, input model.CalculatorInput) *condition.Context {
	ctx := condition.NewContext(prepared.ActiveTags)
	ctx.Flags = input.ContextFlags
	for k, v := range input.ContextValues {
		ctx.Values[k] = v
	}
	for k, v := range prepared.MechanicPerStackValues {
		ctx.Values[k] = v
	}
	for _, s := range input.MechanicStates {
		ctx.MechanicStacks[s.ID] = s.CurrentStacks
	}
	return ctx
}

func sumFloats(m map[conversion.DamageType]float64) float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

func stringKeyedFloats(m map[conversion.DamageType]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func poolTypeNames(pool conversion.Pool) []string {
	var out []string
	for _, t := range conversion.CanonicalOrder() {
		if len(pool[t]) > 0 {
			out = append(out, string(t))
		}
	}
	return out
}
