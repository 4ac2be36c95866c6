package pipeline

import (
	"github.com/torchlit/buildcalc/internal/pkg/idgen"

	"github.com/torchlit/buildcalc/internal/model"
)

var traceIDGenerator = idgen.NewUUID("trace")

// Trace collects opt-in per-stage events as the pipeline runs. A nil *Trace
// is valid and every method on it is a no-op, so callers that don't want
// tracing simply pass nil and pay nothing beyond the nil check.
type Trace struct {
	enabled bool
	id      string
	events  []model.TraceEntry
}

// NewTrace returns a Trace that records events when enabled is true, and
// silently discards them otherwise. Either way it's safe to pass to Run.
// An enabled trace is stamped with a stable UUID identifying this call, so
// a debug_trace can be correlated back to a specific request in logs.
func NewTrace(enabled bool) *Trace {
	t := &Trace{enabled: enabled}
	if enabled {
		t.id = traceIDGenerator.Generate()
	}
	return t
}

func (t *Trace) record(phase, description string, values map[string]float64, matchedTags []string) {
	if t == nil || !t.enabled {
		return
	}
	t.events = append(t.events, model.TraceEntry{
		Phase:       phase,
		Description: description,
		Values:      values,
		MatchedTags: matchedTags,
	})
}

func (t *Trace) entries() []model.TraceEntry {
	if t == nil {
		return nil
	}
	return t.events
}

func (t *Trace) requestID() string {
	if t == nil {
		return ""
	}
	return t.id
}
