// Package tags implements the tag-interning and modifier-matching
// subsystem: textual tag keys are mapped to dense integer IDs, ancestor
// closures are precomputed once at build time, and every set operation on
// the hot path operates on fixed-width bitsets instead of strings.
package tags

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/torchlit/buildcalc/internal/errors"
)

// Category classifies what a tag represents. It is informational only;
// it does not affect closure or set-operation semantics.
type Category string

const (
	CategoryIdentity Category = "identity"
	CategoryMechanic Category = "mechanic"
	CategoryRule     Category = "rule"
	CategoryState    Category = "state"
)

// Definition describes a single tag as loaded from configuration.
type Definition struct {
	Key      string
	Category Category
	Parents  []string
}

// UnknownTagPolicy governs what happens when a tag key is referenced that
// the registry was not built with. Callers pick one of two modes per
// registry instance and document which they chose.
type UnknownTagPolicy int

const (
	// PolicyFail rejects any unknown tag as an InputValidation/TagUnknown error.
	PolicyFail UnknownTagPolicy = iota
	// PolicyAutoIntern assigns the unknown tag a fresh ID with no parents,
	// logs a warning, and lets evaluation proceed.
	PolicyAutoIntern
)

// Registry is immutable after Build except for the additive, monotone
// auto-intern side table that grows when PolicyAutoIntern is active.
type Registry struct {
	policy UnknownTagPolicy

	mu       sync.Mutex
	nameToID map[string]uint32
	idToName map[uint32]string
	parents  map[uint32][]uint32
	closure  map[uint32]Set
	capacity int
	nextID   uint32
}

// Build constructs a registry from a flat list of tag definitions,
// precomputing every tag's ancestor closure. A cyclic parent relation is a
// fatal ConfigInvalid error.
func Build(defs []Definition, policy UnknownTagPolicy) (*Registry, error) {
	r := &Registry{
		policy:   policy,
		nameToID: make(map[string]uint32, len(defs)),
		idToName: make(map[uint32]string, len(defs)),
		parents:  make(map[uint32][]uint32, len(defs)),
		closure:  make(map[uint32]Set, len(defs)),
	}

	for i, d := range defs {
		id := uint32(i)
		if _, exists := r.nameToID[d.Key]; exists {
			return nil, errors.FailedPreconditionf("tags: duplicate tag key %q", d.Key)
		}
		r.nameToID[d.Key] = id
		r.idToName[id] = d.Key
	}
	r.nextID = uint32(len(defs))
	r.capacity = wordsFor(len(defs)+1) * 64

	for _, d := range defs {
		id := r.nameToID[d.Key]
		parentIDs := make([]uint32, 0, len(d.Parents))
		for _, p := range d.Parents {
			pid, ok := r.nameToID[p]
			if !ok {
				return nil, errors.FailedPreconditionf("tags: %q references unknown parent %q", d.Key, p)
			}
			parentIDs = append(parentIDs, pid)
		}
		r.parents[id] = parentIDs
	}

	for id := range r.idToName {
		if _, err := r.computeClosure(id, make(map[uint32]bool)); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) computeClosure(id uint32, visiting map[uint32]bool) (Set, error) {
	if set, ok := r.closure[id]; ok {
		return set, nil
	}
	if visiting[id] {
		return Set{}, errors.FailedPreconditionf("tags: cycle detected at tag %q", r.idToName[id])
	}
	visiting[id] = true

	set := NewSet(r.capacity)
	set.Insert(id)
	for _, parentID := range r.parents[id] {
		parentClosure, err := r.computeClosure(parentID, visiting)
		if err != nil {
			return Set{}, err
		}
		set.UnionWith(parentClosure)
	}

	delete(visiting, id)
	r.closure[id] = set
	return set, nil
}

// Lookup returns the ID for key without interning it.
func (r *Registry) Lookup(key string) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.nameToID[key]
	return id, ok
}

// Intern resolves key to an ID, applying the registry's UnknownTagPolicy
// when the key has never been seen.
func (r *Registry) Intern(key string) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.nameToID[key]; ok {
		return id, nil
	}

	if r.policy == PolicyFail {
		return 0, errors.InvalidArgumentf("tags: unknown tag %q", key).WithMeta("tag", key)
	}

	id := r.nextID
	r.nextID++
	r.nameToID[key] = id
	r.idToName[id] = key
	r.parents[id] = nil
	r.capacity = wordsFor(int(r.nextID)) * 64
	set := NewSet(r.capacity)
	set.Insert(id)
	r.closure[id] = set

	slog.Warn("tags: auto-interned unknown tag", "tag", key, "id", id)
	return id, nil
}

// Name returns the textual key for id, if known.
func (r *Registry) Name(id uint32) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.idToName[id]
	return name, ok
}

// Closure returns the ancestor closure of a single tag ID (itself plus all
// transitive parents).
func (r *Registry) Closure(id uint32) Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.closure[id]; ok {
		return set.Clone()
	}
	return NewSet(r.capacity)
}

// ClosureOf returns the union of Closure(id) for every id set in s;
// closure is idempotent: ClosureOf(ClosureOf(s)) == ClosureOf(s).
func (r *Registry) ClosureOf(s Set) Set {
	result := r.EmptySet()
	for _, id := range s.Ones() {
		result.UnionWith(r.Closure(id))
	}
	return result
}

// EmptySet creates a set wide enough to hold every tag this registry knows.
func (r *Registry) EmptySet() Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	return NewSet(r.capacity)
}

// SetFromNames interns each name (per the registry's policy) and returns
// the closure of the resulting set.
func (r *Registry) SetFromNames(names []string) (Set, error) {
	set := r.EmptySet()
	for _, name := range names {
		id, err := r.Intern(name)
		if err != nil {
			return Set{}, fmt.Errorf("tags: resolving %q: %w", name, err)
		}
		set.UnionWith(r.Closure(id))
	}
	return set, nil
}

// Len returns the number of tags known to the registry at the time of the
// call, including any auto-interned so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nameToID)
}
