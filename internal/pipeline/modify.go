package pipeline

import (
	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
	"github.com/torchlit/buildcalc/internal/tags"
)

// modifiedEntry is a single post-modification damage amount plus enough
// bookkeeping to render a damage breakdown and trace entry.
type modifiedEntry struct {
	Type        conversion.DamageType
	Amount      float64
	Provenance  tags.Set
	HistoryTags []string
}

// allDamageTypesKey is the reserved stat key for "increased/more damage,
// all types" modifiers. Unlike the five canonical per-type keys, it is not
// gated on a provenance tag: it applies to every entry regardless of which
// types that entry's damage has passed through.
const allDamageTypesKey = "dmg.all"

// applyModification runs stage 6: for every post-conversion entry, it
// multiplies in the (increased, more) factor of every canonical damage
// type whose identity tag is present in the entry's provenance set, not
// just the entry's own bucket type, plus the "all types" factor regardless
// of provenance. This is how the tag-retention contract actually resolves:
// a bucket converted from physical to fire still carries the physical
// identity tag, so both the physical-gated and the fire-gated modifiers
// apply, multiplicatively.
func applyModification(store *modifier.Store, registry *tags.Registry, baseCtx *condition.Context, pool conversion.Pool) []modifiedEntry {
	types := conversion.CanonicalOrder()
	var out []modifiedEntry

	for _, dtype := range types {
		for _, entry := range pool[dtype] {
			provCtx := &condition.Context{
				Flags:          baseCtx.Flags,
				Values:         baseCtx.Values,
				MechanicStacks: baseCtx.MechanicStacks,
				ActiveTags:     entry.Provenance,
			}

			inc := store.SumIncreased(allDamageTypesKey, provCtx)
			more := store.ProductMore(allDamageTypesKey, provCtx)
			factor := (1 + inc) * more
			var historyTags []string
			for _, t := range types {
				tagID, ok := registry.Lookup(string(t))
				if !ok || !entry.Provenance.Contains(tagID) {
					continue
				}
				historyTags = append(historyTags, string(t))
				key := "dmg." + string(t)
				inc := store.SumIncreased(key, provCtx)
				more := store.ProductMore(key, provCtx)
				factor *= (1 + inc) * more
			}

			out = append(out, modifiedEntry{
				Type:        dtype,
				Amount:      entry.Amount * factor,
				Provenance:  entry.Provenance,
				HistoryTags: historyTags,
			})
		}
	}
	return out
}

// totalByType sums modified entries back down to one amount per type, for
// the mitigation stage and the damage breakdown's by_type map.
func totalByType(entries []modifiedEntry) map[conversion.DamageType]float64 {
	out := make(map[conversion.DamageType]float64)
	for _, e := range entries {
		out[e.Type] += e.Amount
	}
	return out
}

// toBreakdownHistory collapses modified entries sharing a type into the
// output envelope's after_conversion shape.
func toBreakdownHistory(entries []modifiedEntry) map[string]model.DamageWithHistory {
	out := make(map[string]model.DamageWithHistory)
	for _, e := range entries {
		key := string(e.Type)
		existing := out[key]
		existing.Amount += e.Amount
		existing.HistoryTags = mergeUnique(existing.HistoryTags, e.HistoryTags)
		out[key] = existing
	}
	return out
}

func mergeUnique(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
