// Package conversion implements the damage-type conversion DAG: extra-as
// gain (non-destructive) followed by conversion (destructive), producing
// damage buckets that carry the provenance tag-set of every type they've
// passed through.
package conversion

import "github.com/torchlit/buildcalc/internal/tags"

// DamageType is one of the five canonical damage types, ordered by their
// position in the conversion DAG.
type DamageType string

const (
	Physical  DamageType = "physical"
	Lightning DamageType = "lightning"
	Cold      DamageType = "cold"
	Fire      DamageType = "fire"
	Chaos     DamageType = "chaos"
)

// dagOrder is the canonical topology: conversions only flow left to right.
var dagOrder = []DamageType{Physical, Lightning, Cold, Fire, Chaos}

func dagIndex(t DamageType) int {
	for i, d := range dagOrder {
		if d == t {
			return i
		}
	}
	return -1
}

// CanonicalOrder returns the five damage types in their fixed DAG order.
func CanonicalOrder() []DamageType {
	out := make([]DamageType, len(dagOrder))
	copy(out, dagOrder)
	return out
}

// IsForwardEdge reports whether src can convert to dst under the canonical
// topology (conversions only flow toward the end of the DAG).
func IsForwardEdge(src, dst DamageType) bool {
	si, di := dagIndex(src), dagIndex(dst)
	return si >= 0 && di >= 0 && si < di
}

// Entry is a single damage amount carrying the provenance tag-set of
// every type it has passed through (its own identity tag unioned with
// every source type's tags it was converted or gained from).
type Entry struct {
	Amount     float64
	Provenance tags.Set
}

// Pool maps a damage type to the list of entries currently assigned to it.
type Pool map[DamageType][]Entry

// NewPool creates an empty pool.
func NewPool() Pool {
	return make(Pool)
}

// Add appends an entry to a type's bucket.
func (p Pool) Add(t DamageType, e Entry) {
	p[t] = append(p[t], e)
}

// Total sums every entry's amount for a type.
func (p Pool) Total(t DamageType) float64 {
	total := 0.0
	for _, e := range p[t] {
		total += e.Amount
	}
	return total
}
