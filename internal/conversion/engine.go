package conversion

import (
	"sort"

	"github.com/torchlit/buildcalc/internal/tags"
)

// ExtraAsRule is a Phase A gain: value fraction of the source type's base
// amount is emitted as additional damage of the destination type, without
// removing anything from the source.
type ExtraAsRule struct {
	Src   DamageType
	Dst   DamageType
	Value float64
}

// ConversionRule is a Phase B conversion: value fraction of the source
// type's current amount moves to the destination type, removed from the
// source.
type ConversionRule struct {
	Src   DamageType
	Dst   DamageType
	Value float64
}

// Engine executes the two-phase conversion DAG against a registry used to
// resolve each damage type's identity tag for provenance tracking.
type Engine struct {
	registry    *tags.Registry
	identityTag map[DamageType]uint32
}

// NewEngine builds an engine, interning the identity tag for every
// canonical damage type up front.
func NewEngine(registry *tags.Registry) (*Engine, error) {
	e := &Engine{registry: registry, identityTag: make(map[DamageType]uint32, len(dagOrder))}
	for _, t := range dagOrder {
		id, err := registry.Intern(string(t))
		if err != nil {
			return nil, err
		}
		e.identityTag[t] = id
	}
	return e, nil
}

func (e *Engine) identitySet(t DamageType) tags.Set {
	s := e.registry.EmptySet()
	s.Insert(e.identityTag[t])
	return s
}

// Process runs Phase A then Phase B against base amounts per type,
// producing the resulting pool. base's provenance is the base type's own
// identity tag unioned with any intrinsic tag-set the caller supplies
// (e.g. skill/item tags the damage should retain from the start).
func (e *Engine) Process(base map[DamageType]float64, intrinsic tags.Set, extraAs []ExtraAsRule, conversions []ConversionRule) Pool {
	pool := NewPool()
	for _, t := range dagOrder {
		amount := base[t]
		if amount == 0 {
			continue
		}
		prov := e.identitySet(t)
		prov.UnionWith(intrinsic)
		pool.Add(t, Entry{Amount: amount, Provenance: prov})
	}

	e.applyExtraAs(pool, extraAs)
	e.applyConversions(pool, conversions)
	return pool
}

// applyExtraAs emits gain buckets. Each rule reads the *current* total of
// its source type (pre-conversion base, since Phase A runs before Phase B)
// and does not modify the source.
func (e *Engine) applyExtraAs(pool Pool, rules []ExtraAsRule) {
	type gain struct {
		dst   DamageType
		entry Entry
	}
	var gains []gain
	for _, r := range rules {
		if r.Value == 0 {
			continue
		}
		srcTotal := pool.Total(r.Src)
		if srcTotal == 0 {
			continue
		}
		prov := e.identitySet(r.Src)
		for _, existing := range pool[r.Src] {
			prov.UnionWith(existing.Provenance)
		}
		prov.UnionWith(e.identitySet(r.Dst))
		gains = append(gains, gain{dst: r.Dst, entry: Entry{Amount: r.Value * srcTotal, Provenance: prov}})
	}
	for _, g := range gains {
		pool.Add(g.dst, g.entry)
	}
}

// applyConversions executes Phase B in canonical DAG order. For each
// source type, outgoing fractions across all of its conversion rules are
// clamped to sum at most 1.0 (rescaled proportionally if they'd exceed
// it), then applied in deterministic destination-index order. A
// conversion consumes the fraction from every entry currently in the
// source bucket, preserving each entry's own accumulated provenance.
func (e *Engine) applyConversions(pool Pool, rules []ConversionRule) {
	bySrc := make(map[DamageType][]ConversionRule)
	for _, r := range rules {
		if r.Value <= 0 {
			continue
		}
		bySrc[r.Src] = append(bySrc[r.Src], r)
	}

	for _, src := range dagOrder {
		srcRules := bySrc[src]
		if len(srcRules) == 0 {
			continue
		}
		sort.Slice(srcRules, func(i, j int) bool {
			return dagIndex(srcRules[i].Dst) < dagIndex(srcRules[j].Dst)
		})

		sum := 0.0
		for _, r := range srcRules {
			sum += r.Value
		}
		scale := 1.0
		if sum > 1.0 {
			scale = 1.0 / sum
		}

		sourceEntries := pool[src]
		var remaining []Entry
		for _, entry := range sourceEntries {
			remainingAmount := entry.Amount
			for _, r := range srcRules {
				fraction := r.Value * scale
				moved := entry.Amount * fraction
				if moved == 0 {
					continue
				}
				dstProv := entry.Provenance.Clone()
				dstProv.UnionWith(e.identitySet(r.Dst))
				pool.Add(r.Dst, Entry{Amount: moved, Provenance: dstProv})
				remainingAmount -= moved
			}
			if remainingAmount > 0 {
				remaining = append(remaining, Entry{Amount: remainingAmount, Provenance: entry.Provenance})
			}
		}
		pool[src] = remaining
	}
}
