// Package modifier implements the typed modifier store: a keyed collection
// of stat modifiers grouped by stat key and kind, with bucketed aggregation
// queries and lazy, per-call predicate caching.
package modifier

import (
	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/tags"
)

// Kind classifies how a modifier's value combines with others on the same
// stat key.
type Kind int

const (
	BaseAdd Kind = iota
	Increased
	More
	Flag
	Override
)

// PerStatConfig scales a modifier's contribution by another stat's value,
// e.g. "+1% fire damage per 10 dexterity".
type PerStatConfig struct {
	StatKey   string
	Per       float64
	RoundDown bool
}

// Modifier is a single contribution to a stat key.
type Modifier struct {
	StatKey         string
	Kind            Kind
	Value           float64
	Source          string
	TagRequirements tags.Set
	Condition       condition.Node
	Bucket          string
	Priority        int
	PerStat         *PerStatConfig

	// insertionIndex breaks OVERRIDE ties: lowest index (first inserted)
	// wins among equal-priority candidates.
	insertionIndex int
}

// resolvedValue applies PerStat scaling, if present, against ctx.
func (m Modifier) resolvedValue(ctx *condition.Context) float64 {
	if m.PerStat == nil {
		return m.Value
	}
	statValue := ctx.Values[m.PerStat.StatKey]
	if m.PerStat.Per == 0 {
		return m.Value
	}
	multiples := statValue / m.PerStat.Per
	if m.PerStat.RoundDown {
		multiples = float64(int(multiples))
	}
	return m.Value * multiples
}

// applies reports whether m contributes under ctx: its tag requirements
// must be a subset of the active tag set and its condition (if any) must
// hold. Each check is cheap and idempotent, so no caching is needed beyond
// what the Store itself does per query.
func (m Modifier) applies(ctx *condition.Context) bool {
	if !m.TagRequirements.IsSubsetOf(ctx.ActiveTags) {
		return false
	}
	return condition.Eval(m.Condition, ctx)
}
