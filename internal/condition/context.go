package condition

import "github.com/torchlit/buildcalc/internal/tags"

// Context is the runtime evaluation environment a predicate AST is checked
// against: the flags and numeric values carried by the calculation input,
// the current mechanic stack counts, and the active tag set assembled by
// the tag registry for this run.
type Context struct {
	Flags          map[string]bool
	Values         map[string]float64
	MechanicStacks map[string]int
	ActiveTags     tags.Set
}

// NewContext builds an empty evaluation context ready to have its fields
// populated by the caller.
func NewContext(activeTags tags.Set) *Context {
	return &Context{
		Flags:          make(map[string]bool),
		Values:         make(map[string]float64),
		MechanicStacks: make(map[string]int),
		ActiveTags:     activeTags,
	}
}

// Eval is a free function wrapper so call sites read `condition.Eval(node,
// ctx)` without needing to know Node is an interface.
func Eval(node Node, ctx *Context) bool {
	if node == nil {
		return true
	}
	return node.Eval(ctx)
}
