// Package engine is the calculator's top-level facade: it wires the tag
// registry, stat aggregator, pipeline executor, and the two cache tiers
// into the six external procedures the calculate_diff/hover-preview
// client actually calls.
package engine

import (
	"context"
	"fmt"

	"github.com/torchlit/buildcalc/internal/cache"
	"github.com/torchlit/buildcalc/internal/errors"
	"github.com/torchlit/buildcalc/internal/mechanic"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/pipeline"
	"github.com/torchlit/buildcalc/internal/stat"
	"github.com/torchlit/buildcalc/internal/tags"
)

// version is the engine's semver, bumped whenever the pipeline's observable
// behavior changes. It is not tied to the module's own release tagging.
const version = "1.0.0"

// defaultResultCacheCapacity mirrors the Rust original's CachedCalculator
// default of 128 entries.
const defaultResultCacheCapacity = 128

// Calculator is the facade every client of this package depends on: the
// interactive planner calls Calculate on every hover, CalculateDiff for
// an A/B gear comparison, and the remaining methods to manage the cache.
type Calculator interface {
	Calculate(ctx context.Context, input model.CalculatorInput, trace bool) (model.CalculatorOutput, error)
	CalculateDiff(ctx context.Context, base, preview model.CalculatorInput) (model.CalculationDiff, error)
	Warmup(ctx context.Context, inputs []model.CalculatorInput) error
	GetCacheStats() model.CacheStats
	WipeCache()
	Version() string
}

// Config holds the dependencies and tunables a Calculator is built from.
type Config struct {
	Registry    *tags.Registry
	Mechanics   []mechanic.Definition
	Distributed cache.DistributedCache

	// ResultCacheCapacity bounds the in-process result LRU. Zero uses
	// defaultResultCacheCapacity.
	ResultCacheCapacity int
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Registry == nil {
		vb.RequiredField("Registry")
	}
	return vb.Build()
}

type engine struct {
	registry     *tags.Registry
	mechanics    []mechanic.Definition
	aggregator   *stat.Aggregator
	executor     *pipeline.Executor
	resultCache  *cache.Cache
	preparedSlot *cache.PreparedSlot
	distributed  cache.DistributedCache
}

// New builds a Calculator from cfg, constructing the aggregator and
// pipeline executor against cfg.Registry.
func New(cfg *Config) (Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	executor, err := pipeline.NewExecutor(cfg.Registry)
	if err != nil {
		return nil, errors.Wrap(err, "building pipeline executor")
	}

	capacity := cfg.ResultCacheCapacity
	if capacity == 0 {
		capacity = defaultResultCacheCapacity
	}

	return &engine{
		registry:     cfg.Registry,
		mechanics:    cfg.Mechanics,
		aggregator:   stat.NewAggregator(cfg.Registry),
		executor:     executor,
		resultCache:  cache.New(capacity),
		preparedSlot: cache.NewPreparedSlot(),
		distributed:  cfg.Distributed,
	}, nil
}

// Calculate runs input through the full pipeline, or returns a cached
// result if one exists for this exact input. trace requests must bypass
// both cache tiers: a cached result was computed without a trace and
// replaying it verbatim would silently hand back an empty debug_trace.
func (e *engine) Calculate(ctx context.Context, input model.CalculatorInput, trace bool) (model.CalculatorOutput, error) {
	if !trace {
		if out, ok := e.resultCache.Get(input); ok {
			return out, nil
		}
		if e.distributed != nil {
			key := cache.Compute(input)
			if out, ok, err := e.distributed.Get(ctx, key); err == nil && ok {
				e.resultCache.Put(input, out)
				return out, nil
			}
		}
	}

	prepared, err := e.prepare(input)
	if err != nil {
		return model.CalculatorOutput{}, err
	}

	var tr *pipeline.Trace
	if trace {
		tr = pipeline.NewTrace(true)
	}

	out, err := e.executor.Run(prepared, input.ActiveSkill, input, tr)
	if err != nil {
		return model.CalculatorOutput{}, err
	}

	if !trace {
		e.resultCache.Put(input, out)
		if e.distributed != nil {
			_ = e.distributed.Put(ctx, cache.Compute(input), out)
		}
	}
	return out, nil
}

// prepare returns input's prepared context. preparedSlot only ever holds a
// base (preview-free) context, keyed by baseFingerprint; a request carrying
// a preview_slot reuses that cached base and folds its preview in via
// Reaggregate instead of mutating or replacing what's cached, so a later
// request with a different preview_slot (or none at all) still finds the
// original base waiting for it rather than someone else's preview baked in.
func (e *engine) prepare(input model.CalculatorInput) (*stat.PreparedContext, error) {
	base, ok := e.preparedSlot.Get(input)
	if !ok {
		baseInput := input
		baseInput.PreviewSlot = nil
		var err error
		base, err = e.aggregator.Aggregate(baseInput, e.mechanics)
		if err != nil {
			return nil, err
		}
		e.preparedSlot.Put(input, base)
	}

	if input.PreviewSlot == nil {
		return base, nil
	}
	return e.aggregator.Reaggregate(base, input.PreviewSlot)
}

// CalculateDiff computes base and preview independently and returns both
// outputs plus the per-field delta between them. When preview differs
// from base only by preview_slot, the shared PreparedSlot means the
// second Calculate call skips aggregation from scratch: it replays
// sanitization over the cached base's item list and recomputes only the
// contributions of the items the preview slot changes.
func (e *engine) CalculateDiff(ctx context.Context, base, preview model.CalculatorInput) (model.CalculationDiff, error) {
	baseOut, err := e.Calculate(ctx, base, false)
	if err != nil {
		return model.CalculationDiff{}, fmt.Errorf("engine: calculating base: %w", err)
	}
	previewOut, err := e.Calculate(ctx, preview, false)
	if err != nil {
		return model.CalculationDiff{}, fmt.Errorf("engine: calculating preview: %w", err)
	}

	return model.CalculationDiff{
		Base:    baseOut,
		Preview: previewOut,
		Delta:   diffOutputs(baseOut, previewOut),
	}, nil
}

// diffOutputs computes preview-minus-base for every scalar output field
// and for each damage type present in either EHP series.
func diffOutputs(base, preview model.CalculatorOutput) map[string]float64 {
	delta := map[string]float64{
		"dps_theoretical": preview.DPSTheoretical - base.DPSTheoretical,
		"dps_effective":   preview.DPSEffective - base.DPSEffective,
		"hit_damage":      preview.HitDamage - base.HitDamage,
		"rate":            preview.Rate - base.Rate,
		"crit_chance":     preview.CritChance - base.CritChance,
		"crit_multiplier": preview.CritMultiplier - base.CritMultiplier,
		"hit_chance":      preview.HitChance - base.HitChance,
	}
	seen := make(map[string]bool)
	for t := range base.EHPSeries {
		seen[t] = true
	}
	for t := range preview.EHPSeries {
		seen[t] = true
	}
	for t := range seen {
		delta["ehp."+t] = preview.EHPSeries[t] - base.EHPSeries[t]
	}
	return delta
}

// Warmup runs each input through Calculate, populating the result cache
// ahead of the first real request for that input, useful for preloading
// a build planner's starter loadouts before the UI opens.
func (e *engine) Warmup(ctx context.Context, inputs []model.CalculatorInput) error {
	for i, input := range inputs {
		if _, err := e.Calculate(ctx, input, false); err != nil {
			return fmt.Errorf("engine: warmup input %d: %w", i, err)
		}
	}
	return nil
}

// GetCacheStats reports the result cache's current occupancy and hit rate.
func (e *engine) GetCacheStats() model.CacheStats {
	return e.resultCache.Stats()
}

// WipeCache discards every cached result and the single prepared-context
// slot.
func (e *engine) WipeCache() {
	e.resultCache.Wipe()
	e.preparedSlot = cache.NewPreparedSlot()
}

// Version returns the engine's semver.
func (e *engine) Version() string {
	return version
}
