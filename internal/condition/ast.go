// Package condition implements the small predicate AST used to gate
// modifiers and mechanic effects: flags, numeric comparisons, tag
// membership, and mechanic-stack thresholds, combined with boolean
// connectives.
package condition

import "github.com/torchlit/buildcalc/internal/tags"

// CompareOp is one of the six numeric comparison operators.
type CompareOp int

const (
	OpLess CompareOp = iota
	OpLessEqual
	OpEqual
	OpGreaterEqual
	OpGreater
	OpNotEqual
)

// Node is a predicate AST node. Evaluation is side-effect-free and total:
// every node produces a bool for any Context, including contexts missing
// the flags, values, or tags a node references.
type Node interface {
	Eval(ctx *Context) bool
}

// Flag reads a named boolean out of the context's flag table. A flag the
// context doesn't carry evaluates false.
type Flag struct {
	Name string
}

func (n Flag) Eval(ctx *Context) bool {
	return ctx.Flags[n.Name]
}

// Value wraps a named numeric context reading for use as a Compare operand.
// On its own, outside a Compare, it evaluates true iff the value is
// nonzero.
type Value struct {
	Name string
}

func (n Value) Eval(ctx *Context) bool {
	return ctx.Values[n.Name] != 0
}

func (n Value) resolve(ctx *Context) float64 {
	return ctx.Values[n.Name]
}

// Literal is a constant numeric operand for Compare.
type Literal struct {
	Number float64
}

func (n Literal) Eval(ctx *Context) bool {
	return n.Number != 0
}

func (n Literal) resolve(*Context) float64 {
	return n.Number
}

// numeric is satisfied by any node that can resolve to a float64 for use
// as a Compare operand: Value and Literal.
type numeric interface {
	resolve(ctx *Context) float64
}

// Compare evaluates lhs op rhs using exact f64 comparison, no epsilon
// tolerance, including for OpEqual.
type Compare struct {
	Op  CompareOp
	LHS numeric
	RHS numeric
}

func (n Compare) Eval(ctx *Context) bool {
	l := n.LHS.resolve(ctx)
	r := n.RHS.resolve(ctx)
	switch n.Op {
	case OpLess:
		return l < r
	case OpLessEqual:
		return l <= r
	case OpEqual:
		return l == r
	case OpGreaterEqual:
		return l >= r
	case OpGreater:
		return l > r
	case OpNotEqual:
		return l != r
	default:
		return false
	}
}

// HasTag evaluates true iff id is present in the context's active tag set.
type HasTag struct {
	ID uint32
}

func (n HasTag) Eval(ctx *Context) bool {
	return ctx.ActiveTags.Contains(n.ID)
}

// MechanicStacks compares the current stack count of a named mechanic
// against n using op.
type MechanicStacks struct {
	Name string
	Op   CompareOp
	N    int
}

func (n MechanicStacks) Eval(ctx *Context) bool {
	stacks := float64(ctx.MechanicStacks[n.Name])
	cmp := Compare{Op: n.Op, LHS: Literal{Number: stacks}, RHS: Literal{Number: float64(n.N)}}
	return cmp.Eval(ctx)
}

// And is true iff every child is true. An empty And is true (vacuous).
type And struct {
	Children []Node
}

func (n And) Eval(ctx *Context) bool {
	for _, c := range n.Children {
		if !c.Eval(ctx) {
			return false
		}
	}
	return true
}

// Or is true iff at least one child is true. An empty Or is false.
type Or struct {
	Children []Node
}

func (n Or) Eval(ctx *Context) bool {
	for _, c := range n.Children {
		if c.Eval(ctx) {
			return true
		}
	}
	return false
}

// Not negates its inner node.
type Not struct {
	Inner Node
}

func (n Not) Eval(ctx *Context) bool {
	return !n.Inner.Eval(ctx)
}

// Always is the trivially-true predicate, used as the default condition
// for modifiers that carry none.
type Always struct{}

func (Always) Eval(*Context) bool { return true }

// resolveTagID looks up name in registry and returns its tag ID.
// Unknown names follow the registry's own unknown-tag policy.
func resolveTagID(registry *tags.Registry, name string) (uint32, error) {
	return registry.Intern(name)
}

// NewHasTag builds a HasTag node from a textual tag name, resolving it
// through registry so callers can author conditions against tag keys
// rather than raw IDs.
func NewHasTag(registry *tags.Registry, name string) (HasTag, error) {
	id, err := resolveTagID(registry, name)
	if err != nil {
		return HasTag{}, err
	}
	return HasTag{ID: id}, nil
}
