package stat

import (
	"github.com/torchlit/buildcalc/internal/errors"
	"github.com/torchlit/buildcalc/internal/mechanic"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
	"github.com/torchlit/buildcalc/internal/tags"
)

// PreparedContext is the product of aggregation: a modifier store, the
// active tag-set it was built against, the resolved target config, and
// any mechanic per-stack derivatives other modifiers may reference via
// PerStat. It is the cache unit for incremental recomputation.
type PreparedContext struct {
	Store                  *modifier.Store
	ActiveTags             tags.Set
	Target                 model.TargetConfig
	MechanicPerStackValues map[string]float64
	ManaMultiplier         float64
	DiscardedOffHand       bool

	// SanitizedItems is the item list actually baked into Store: the input
	// to sanitizeItems was applied with no preview override. Reaggregate
	// diffs this list against the result of replaying sanitizeItems with a
	// preview slot to find exactly which items' contributions to retract
	// and add.
	SanitizedItems []model.Item

	// NonItemTags is the active tag-set contributed by skills, supports,
	// and context flags alone, excluding any item. Reaggregate unions it
	// with the new item list's tags instead of reusing ActiveTags verbatim,
	// since removing an item can retract a tag no other item or skill
	// grants.
	NonItemTags tags.Set
}

// Aggregator assembles a PreparedContext from a calculator input against
// a shared, process-wide tag registry.
type Aggregator struct {
	registry *tags.Registry
}

// NewAggregator builds an aggregator bound to registry.
func NewAggregator(registry *tags.Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Aggregate runs the five-step assembly order: sanitization, local-first,
// skill composition, mechanics, global overrides.
func (a *Aggregator) Aggregate(input model.CalculatorInput, mechanicDefs []mechanic.Definition) (*PreparedContext, error) {
	items, discardedOffHand, err := sanitizeItems(input.Items, input.PreviewSlot)
	if err != nil {
		return nil, err
	}

	if input.ActiveSkill.ID == "" {
		return nil, errors.InvalidArgumentf("stat: active_skill is required").WithMeta("field", "active_skill")
	}
	if input.ActiveSkill.Level < 0 {
		return nil, errors.InvalidArgumentf("stat: active_skill.level must not be negative").WithMeta("field", "active_skill.level")
	}

	store := modifier.NewStore()
	itemBuilder := tags.NewBuilder(a.registry)

	for _, item := range items {
		if err := aggregateItem(store, itemBuilder, item); err != nil {
			return nil, err
		}
	}

	nonItemBuilder := tags.NewBuilder(a.registry)
	manaMultiplier, err := aggregateSkills(store, nonItemBuilder, input.ActiveSkill, input.SupportSkills)
	if err != nil {
		return nil, err
	}

	processor := mechanic.NewProcessor(mechanicDefs, toMechanicStates(input.MechanicStates))
	perStack := aggregateMechanics(store, processor, mechanicDefs)

	if err := nonItemBuilder.InjectContextFlags(input.ContextFlags); err != nil {
		return nil, err
	}

	aggregateOverrides(store, input.GlobalOverrides)

	nonItemTags := nonItemBuilder.Build()
	activeTags := itemBuilder.Build()
	activeTags.UnionWith(nonItemTags)

	return &PreparedContext{
		Store:                  store,
		ActiveTags:             activeTags,
		Target:                 input.TargetConfig,
		MechanicPerStackValues: perStack,
		ManaMultiplier:         manaMultiplier,
		DiscardedOffHand:       discardedOffHand,
		SanitizedItems:         items,
		NonItemTags:            nonItemTags,
	}, nil
}

// Reaggregate produces the preview-slot variant of base without rerunning
// sanitization, item aggregation, skill composition, mechanics, or
// overrides for anything but the single slot preview touches. It replays
// sanitizeItems against base's own sanitized item list with preview
// applied, diffs the result against that list, retracts whichever items
// dropped out of a clone of base.Store, folds in whichever items newly
// appear, and rebuilds ActiveTags from base.NonItemTags plus the new item
// list's tags (a plain union would wrongly keep a tag only the retracted
// item granted).
func (a *Aggregator) Reaggregate(base *PreparedContext, preview *model.PreviewSlot) (*PreparedContext, error) {
	newItems, discardedOffHand, err := sanitizeItems(base.SanitizedItems, preview)
	if err != nil {
		return nil, err
	}

	removed, added := diffItems(base.SanitizedItems, newItems)

	store := base.Store.Clone()
	for _, item := range removed {
		store.RemoveSource(item.ID)
	}

	builder := tags.NewBuilder(a.registry)
	for _, item := range newItems {
		if err := builder.InjectNames(item.Tags); err != nil {
			return nil, err
		}
	}
	for _, item := range added {
		if err := aggregateItem(store, builder, item); err != nil {
			return nil, err
		}
	}

	itemTags := builder.Build()
	activeTags := base.NonItemTags.Clone()
	activeTags.UnionWith(itemTags)

	return &PreparedContext{
		Store:                  store,
		ActiveTags:             activeTags,
		Target:                 base.Target,
		MechanicPerStackValues: base.MechanicPerStackValues,
		ManaMultiplier:         base.ManaMultiplier,
		DiscardedOffHand:       discardedOffHand,
		SanitizedItems:         newItems,
		NonItemTags:            base.NonItemTags,
	}, nil
}

// diffItems reports which items of old are absent from updated and which
// items of updated are absent from old, keyed by item ID: the preview
// slot's single-item swap, plus any two-hand/dedup fallout it triggers,
// shows up as a small number of removals and additions rather than a
// wholesale list replacement.
func diffItems(old, updated []model.Item) (removed, added []model.Item) {
	oldByID := make(map[string]model.Item, len(old))
	for _, it := range old {
		oldByID[it.ID] = it
	}
	updatedByID := make(map[string]model.Item, len(updated))
	for _, it := range updated {
		updatedByID[it.ID] = it
	}

	for _, it := range old {
		if _, ok := updatedByID[it.ID]; !ok {
			removed = append(removed, it)
		}
	}
	for _, it := range updated {
		if _, ok := oldByID[it.ID]; !ok {
			added = append(added, it)
		}
	}
	return removed, added
}

// sanitizeItems applies the preview-slot override, clears the off-hand
// when the resolved main weapon is two-handed, and dedups limited unique
// items by limitation key (first occurrence wins). Duplicate ring slots
// are explicitly permitted and pass through untouched.
func sanitizeItems(items []model.Item, preview *model.PreviewSlot) ([]model.Item, bool, error) {
	resolved := make([]model.Item, len(items))
	copy(resolved, items)

	if preview != nil {
		replaced := false
		for i, it := range resolved {
			if it.Slot == preview.SlotType {
				resolved[i] = preview.Item
				replaced = true
				break
			}
		}
		if !replaced {
			resolved = append(resolved, preview.Item)
		}
	}

	mainIsTwoHanded := false
	for _, it := range resolved {
		if it.Slot == model.SlotMainHand && it.IsTwoHanded {
			mainIsTwoHanded = true
			break
		}
	}

	discardedOffHand := false
	var afterTwoHand []model.Item
	for _, it := range resolved {
		if mainIsTwoHanded && it.Slot == model.SlotOffHand {
			discardedOffHand = true
			continue
		}
		afterTwoHand = append(afterTwoHand, it)
	}

	seenLimitation := make(map[string]bool)
	var deduped []model.Item
	for _, it := range afterTwoHand {
		if it.LimitationKey != "" {
			if seenLimitation[it.LimitationKey] {
				continue
			}
			seenLimitation[it.LimitationKey] = true
		}
		deduped = append(deduped, it)
	}

	return deduped, discardedOffHand, nil
}

// aggregateItem applies an item's local INCREASED modifiers to its own
// intrinsic stats before contributing the resulting values to the global
// store, per the local-before-global discipline: a local modifier changes
// what its bearing item contributes, it never leaks to other items.
func aggregateItem(store *modifier.Store, builder *tags.Builder, item model.Item) error {
	localIncreasedByKey := make(map[string]float64)
	for _, affix := range item.Affixes {
		for _, s := range affix.Stats {
			if s.Local {
				kind, target := classify(s.Key)
				if kind == modifier.Increased {
					localIncreasedByKey[target] += s.Value
				}
			}
		}
	}

	for _, s := range item.ImplicitStats {
		kind, target := classify(s.Key)
		value := s.Value
		if boost, ok := localIncreasedByKey[target]; ok {
			value *= 1 + boost
		}
		store.Add(modifier.Modifier{StatKey: target, Kind: kind, Value: value, Source: item.ID, Bucket: s.Bucket})
	}

	for _, affix := range item.Affixes {
		for _, s := range affix.Stats {
			if s.Local {
				continue // already folded into the item's own intrinsic values above
			}
			kind, target := classify(s.Key)
			store.Add(modifier.Modifier{
				StatKey: target,
				Kind:    kind,
				Value:   s.Value,
				Source:  item.ID + ":" + affix.ID,
				Bucket:  s.Bucket,
			})
		}
	}

	if err := builder.InjectNames(item.Tags); err != nil {
		return err
	}
	return nil
}

// aggregateSkills folds the active skill's own stats plus every support's
// stats and injected tags into the store, and returns the final mana-cost
// multiplier as the product of each support's mana_multiplier.
func aggregateSkills(store *modifier.Store, builder *tags.Builder, active model.Skill, supports []model.Skill) (float64, error) {
	if err := builder.InjectNames(active.Tags); err != nil {
		return 0, err
	}
	if err := builder.InjectNames(active.InjectedTags); err != nil {
		return 0, err
	}
	addSkillStats(store, active)

	manaMultiplier := 1.0
	for _, support := range supports {
		if err := builder.InjectNames(support.Tags); err != nil {
			return 0, err
		}
		if err := builder.InjectNames(support.InjectedTags); err != nil {
			return 0, err
		}
		addSkillStats(store, support)
		if support.ManaMultiplier != 0 {
			manaMultiplier *= support.ManaMultiplier
		}
	}
	return manaMultiplier, nil
}

func addSkillStats(store *modifier.Store, skill model.Skill) {
	for _, s := range skill.Stats {
		kind, target := classify(s.Key)
		store.Add(modifier.Modifier{StatKey: target, Kind: kind, Value: s.Value, Source: "skill:" + skill.ID, Bucket: s.Bucket})
	}
	for damageType, minMax := range skill.BaseDamage {
		store.Add(modifier.Modifier{StatKey: "dmg." + damageType + ".min", Kind: modifier.BaseAdd, Value: minMax[0], Source: "skill:" + skill.ID})
		store.Add(modifier.Modifier{StatKey: "dmg." + damageType + ".max", Kind: modifier.BaseAdd, Value: minMax[1], Source: "skill:" + skill.ID})
	}
}

// aggregateMechanics folds every active mechanic's per-stack effects into
// the store, classifying each key the same way item and skill stats are
// (a mechanic effect named "mod.inc.dmg.all" is an INCREASED contribution
// to "dmg.all", not a literal stat named "mod.inc.dmg.all"), and returns
// the per-mechanic per-stack derivative table for PerStat modifiers to
// resolve against.
func aggregateMechanics(store *modifier.Store, processor *mechanic.Processor, defs []mechanic.Definition) map[string]float64 {
	for key, value := range processor.CalculateBaseEffects() {
		kind, target := classify(key)
		store.Add(modifier.Modifier{StatKey: target, Kind: kind, Value: value, Source: "mechanic"})
	}

	perStack := make(map[string]float64)
	for _, def := range defs {
		if stacks := processor.GetStacks(def.ID); stacks > 0 {
			// A PerStat modifier names this as its StatKey (the value divided
			// by its Per) so
			// "value per N stacks of <mechanic>" resolves without the
			// stat aggregator knowing the modifier's own coefficient.
			perStack["per_"+def.ID] = float64(stacks)
		}
	}
	return perStack
}

// aggregateOverrides folds global_overrides in as OVERRIDE modifiers with
// a fixed high priority; they are applied last, per the assembly order.
const globalOverridePriority = 1000

func aggregateOverrides(store *modifier.Store, overrides map[string]float64) {
	for key, value := range overrides {
		store.Add(modifier.Modifier{StatKey: key, Kind: modifier.Override, Value: value, Source: "global_override", Priority: globalOverridePriority})
	}
}

func toMechanicStates(states []model.MechanicState) []mechanic.State {
	out := make([]mechanic.State, len(states))
	for i, s := range states {
		out[i] = mechanic.State{ID: s.ID, CurrentStacks: s.CurrentStacks, MaxStacks: s.MaxStacks}
	}
	return out
}
