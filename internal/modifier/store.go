package modifier

import (
	"strings"

	"github.com/torchlit/buildcalc/internal/condition"
)

// Store holds modifiers grouped by stat key and, within that, by kind.
// Queries resolve predicates lazily, only for the modifiers on the queried
// key and kind. Each query call builds its own applicability cache and
// drops it on return; nothing is cached across query calls, so a modifier
// checked by more than one query within the same pipeline run is evaluated
// once per query.
type Store struct {
	byStat map[string][]*Modifier
	count  int
}

// NewStore creates an empty modifier store.
func NewStore() *Store {
	return &Store{byStat: make(map[string][]*Modifier)}
}

// Add appends a modifier to the store. Insertion order is preserved and
// used to break OVERRIDE priority ties.
func (s *Store) Add(m Modifier) {
	m.insertionIndex = s.count
	s.count++
	s.byStat[m.StatKey] = append(s.byStat[m.StatKey], &m)
}

// Clone returns a copy of s whose per-key slices are independent of the
// original, so a caller can add or remove entries on the clone for
// incremental recomputation without mutating s.
func (s *Store) Clone() *Store {
	clone := &Store{byStat: make(map[string][]*Modifier, len(s.byStat)), count: s.count}
	for key, mods := range s.byStat {
		clone.byStat[key] = append([]*Modifier(nil), mods...)
	}
	return clone
}

// RemoveSource drops every modifier sourced from source itself or from
// "source:*" (an item's affix-derived modifiers are sourced as
// "<item_id>:<affix_id>"), retracting one item's entire contribution from
// the store. Used to undo a slot's prior occupant before folding in its
// replacement during incremental recomputation.
func (s *Store) RemoveSource(source string) {
	prefix := source + ":"
	for key, mods := range s.byStat {
		kept := mods[:0]
		for _, m := range mods {
			if m.Source == source || strings.HasPrefix(m.Source, prefix) {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == 0 {
			delete(s.byStat, key)
		} else {
			s.byStat[key] = kept
		}
	}
}

func (s *Store) forKind(key string, kind Kind) []*Modifier {
	var out []*Modifier
	for _, m := range s.byStat[key] {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// applyCache memoizes Modifier.applies within a single query call. It is
// keyed by modifier pointer only (not by ctx) and is discarded when the
// query returns.
type applyCache map[*Modifier]bool

func (c applyCache) appliesCached(m *Modifier, ctx *condition.Context) bool {
	if v, ok := c[m]; ok {
		return v
	}
	v := m.applies(ctx)
	c[m] = v
	return v
}

// SumBase returns the sum of BASE_ADD values whose predicate holds.
func (s *Store) SumBase(key string, ctx *condition.Context) float64 {
	cache := applyCache{}
	total := 0.0
	for _, m := range s.forKind(key, BaseAdd) {
		if cache.appliesCached(m, ctx) {
			total += m.resolvedValue(ctx)
		}
	}
	return total
}

// SumIncreased returns the sum of INCREASED values whose predicate holds.
// Callers apply it as the multiplier (1 + sum).
func (s *Store) SumIncreased(key string, ctx *condition.Context) float64 {
	cache := applyCache{}
	total := 0.0
	for _, m := range s.forKind(key, Increased) {
		if cache.appliesCached(m, ctx) {
			total += m.resolvedValue(ctx)
		}
	}
	return total
}

// ProductMore returns the product of (1 + bucketSum) across MORE buckets.
// Modifiers sharing a bucket label are summed first, then bucket totals
// are multiplied, so two 20%/30% MORE modifiers in the same bucket combine
// as 1.5, not 1.2 * 1.3 = 1.56.
func (s *Store) ProductMore(key string, ctx *condition.Context) float64 {
	cache := applyCache{}
	buckets := make(map[string]float64)
	var order []string
	for _, m := range s.forKind(key, More) {
		if !cache.appliesCached(m, ctx) {
			continue
		}
		if _, seen := buckets[m.Bucket]; !seen {
			order = append(order, m.Bucket)
		}
		buckets[m.Bucket] += m.resolvedValue(ctx)
	}
	product := 1.0
	for _, bucket := range order {
		product *= 1 + buckets[bucket]
	}
	return product
}

// AnyFlag reports whether any FLAG modifier on key applies.
func (s *Store) AnyFlag(key string, ctx *condition.Context) bool {
	cache := applyCache{}
	for _, m := range s.forKind(key, Flag) {
		if cache.appliesCached(m, ctx) {
			return true
		}
	}
	return false
}

// Override returns the value of the highest-priority applicable OVERRIDE
// modifier, and whether one exists. Ties resolve to whichever was inserted
// first.
func (s *Store) Override(key string, ctx *condition.Context) (float64, bool) {
	cache := applyCache{}
	var best *Modifier
	for _, m := range s.forKind(key, Override) {
		if !cache.appliesCached(m, ctx) {
			continue
		}
		if best == nil {
			best = m
			continue
		}
		if m.Priority > best.Priority {
			best = m
		} else if m.Priority == best.Priority && m.insertionIndex < best.insertionIndex {
			best = m
		}
	}
	if best == nil {
		return 0, false
	}
	return best.resolvedValue(ctx), true
}
