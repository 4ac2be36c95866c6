package tags

// stateMapping associates a context flag with the tag it injects when the
// flag is true, and optionally the tag it injects when the flag is false.
type stateMapping struct {
	flag      string
	whenTrue  string
	whenFalse string
}

var stateMappings = []stateMapping{
	{"is_moving", "state.moving", "state.stationary"},
	{"low_life", "state.low_life", ""},
	{"full_life", "state.full_life", ""},
	{"recently_crit", "state.recently_crit", ""},
	{"recently_killed", "state.recently_killed", ""},
	{"enemy_chilled", "state.enemy_chilled", ""},
	{"enemy_frozen", "state.enemy_frozen", ""},
	{"enemy_shocked", "state.enemy_shocked", ""},
	{"enemy_ignited", "state.enemy_ignited", ""},
	{"enemy_controlled", "state.enemy_controlled", ""},
}

// Builder accumulates the active tag-set for one pipeline run: the closure
// of the union of skill intrinsic tags, injected support tags, global item
// tags, and context-flag-derived state tags.
type Builder struct {
	registry *Registry
	active   Set
}

// NewBuilder starts an empty active-set accumulation against registry.
func NewBuilder(registry *Registry) *Builder {
	return &Builder{registry: registry, active: registry.EmptySet()}
}

// InjectNames interns and unions the closure of each tag name into the
// active set. Used for skill intrinsic tags, support-injected tags, and
// globally-applying item tags.
func (b *Builder) InjectNames(names []string) error {
	set, err := b.registry.SetFromNames(names)
	if err != nil {
		return err
	}
	b.active.UnionWith(set)
	return nil
}

// InjectContextFlags adds the state tags implied by context_flags.
func (b *Builder) InjectContextFlags(flags map[string]bool) error {
	for _, m := range stateMappings {
		value, ok := flags[m.flag]
		if !ok {
			continue
		}
		target := m.whenTrue
		if !value {
			target = m.whenFalse
		}
		if target == "" {
			continue
		}
		id, err := b.registry.Intern(target)
		if err != nil {
			return err
		}
		b.active.UnionWith(b.registry.Closure(id))
	}
	return nil
}

// Build returns the accumulated active tag-set.
func (b *Builder) Build() Set {
	return b.active
}
