package cache

import (
	"sync"

	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/stat"
)

// PreparedSlot holds a single cached PreparedContext, fingerprinted by the
// base input (everything except preview_slot) that produced it. It exists
// to let calculate_diff skip re-running stages 1-2 (sanitization through
// global overrides) when only the preview slot differs between the base
// and preview calls sharing one request. The cached value is always a
// preview-free context: Put and Get both fingerprint on the base portion
// of input only, so a request with a preview_slot still hits the same
// slot its base sibling populated. Folding a preview_slot into the cached
// base, and rerunning stages 3-9 against the result, is the caller's job
// (stat.Aggregator.Reaggregate); this cache never sees or stores a
// preview-bearing context.
type PreparedSlot struct {
	mu          sync.Mutex
	key         Fingerprint
	value       *stat.PreparedContext
	initialized bool
}

// NewPreparedSlot returns an empty slot.
func NewPreparedSlot() *PreparedSlot {
	return &PreparedSlot{}
}

// baseFingerprint computes a fingerprint over input with its preview slot
// cleared, so a base call and the paired preview call in the same
// calculate_diff request hash identically whenever only the override slot
// changes.
func baseFingerprint(input model.CalculatorInput) Fingerprint {
	input.PreviewSlot = nil
	return Compute(input)
}

// Get returns the cached PreparedContext if input's base portion matches
// the slot's current occupant.
func (s *PreparedSlot) Get(input model.CalculatorInput) (*stat.PreparedContext, bool) {
	key := baseFingerprint(input)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || s.key != key {
		return nil, false
	}
	return s.value, true
}

// Put stores value as the slot's occupant for input's base fingerprint,
// replacing whatever was there before.
func (s *PreparedSlot) Put(input model.CalculatorInput, value *stat.PreparedContext) {
	key := baseFingerprint(input)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.value = value
	s.initialized = true
}
