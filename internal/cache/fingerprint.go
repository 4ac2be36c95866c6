// Package cache implements the result cache: a bounded in-process LRU keyed
// by a canonical fingerprint of the calculator input, with an optional
// Redis-backed distributed tier and a single-slot delta path for preview
// recomputation.
package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/torchlit/buildcalc/internal/model"
)

// Fingerprint is the cache key: a 64-bit digest of a calculator input's
// canonical serialization. Two inputs that differ only in map iteration
// order produce the same fingerprint.
type Fingerprint uint64

// Compute hashes input's canonical form with xxhash, a fast,
// non-cryptographic digest well suited to cacheable request shapes. Map
// iteration order never affects the result: every map is
// walked in sorted-key order before hashing.
func Compute(input model.CalculatorInput) Fingerprint {
	var b strings.Builder
	writeInput(&b, input)
	return Fingerprint(xxhash.Sum64String(b.String()))
}

func writeInput(b *strings.Builder, input model.CalculatorInput) {
	writeBoolMap(b, "flags", input.ContextFlags)
	writeFloatMap(b, "values", input.ContextValues)
	writeTarget(b, input.TargetConfig)
	writeItems(b, input.Items)
	writeSkill(b, "active", input.ActiveSkill)
	for _, s := range input.SupportSkills {
		writeSkill(b, "support", s)
	}
	writeFloatMap(b, "overrides", input.GlobalOverrides)
	for _, s := range input.MechanicStates {
		fmt.Fprintf(b, "mech:%s:%d:%d;", s.ID, s.CurrentStacks, s.MaxStacks)
	}
	if input.PreviewSlot != nil {
		b.WriteString("preview:")
		b.WriteString(string(input.PreviewSlot.SlotType))
		b.WriteByte(':')
		writeItem(b, input.PreviewSlot.Item)
	}
	b.WriteString("variance:")
	b.WriteString(strconv.FormatBool(input.VarianceRoll))
}

func writeBoolMap(b *strings.Builder, label string, m map[string]bool) {
	keys := sortedKeys(m)
	for _, k := range keys {
		fmt.Fprintf(b, "%s.%s=%t;", label, k, m[k])
	}
}

func writeFloatMap(b *strings.Builder, label string, m map[string]float64) {
	keys := sortedKeys(m)
	for _, k := range keys {
		fmt.Fprintf(b, "%s.%s=%s;", label, k, strconv.FormatFloat(m[k], 'g', -1, 64))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeTarget(b *strings.Builder, t model.TargetConfig) {
	fmt.Fprintf(b, "target:%d:%s:%s:%s:%s:%s:%s;",
		t.Level,
		strconv.FormatFloat(t.DefenseConstant, 'g', -1, 64),
		strconv.FormatFloat(t.GenericDR, 'g', -1, 64),
		strconv.FormatFloat(t.Armor, 'g', -1, 64),
		strconv.FormatFloat(t.Evasion, 'g', -1, 64),
		strconv.FormatFloat(t.LifePool, 'g', -1, 64),
		strconv.FormatFloat(t.ArmorMitigationK, 'g', -1, 64))
	writeFloatMap(b, "res", t.Resistances)
}

func writeItems(b *strings.Builder, items []model.Item) {
	for _, it := range items {
		writeItem(b, it)
	}
}

func writeItem(b *strings.Builder, it model.Item) {
	fmt.Fprintf(b, "item:%s:%s:%s:%t:%t:%s;", it.ID, it.BaseType, it.Slot, it.IsTwoHanded, it.IsCorrupted, it.LimitationKey)
	for _, s := range it.ImplicitStats {
		writeStat(b, s)
	}
	for _, a := range it.Affixes {
		fmt.Fprintf(b, "affix:%s:%s;", a.ID, a.Predicate)
		for _, s := range a.Stats {
			writeStat(b, s)
		}
	}
	tags := append([]string(nil), it.Tags...)
	sort.Strings(tags)
	b.WriteString(strings.Join(tags, ","))
	b.WriteByte(';')
}

func writeStat(b *strings.Builder, s model.Stat) {
	fmt.Fprintf(b, "stat:%s=%s:%s:%t;", s.Key, strconv.FormatFloat(s.Value, 'g', -1, 64), s.Bucket, s.Local)
}

func writeSkill(b *strings.Builder, label string, s model.Skill) {
	cooldown := "none"
	if s.Cooldown != nil {
		cooldown = strconv.FormatFloat(*s.Cooldown, 'g', -1, 64)
	}
	fmt.Fprintf(b, "%s:%s:%s:%t:%d:%s:%s:%s:%s;",
		label, s.ID, s.Kind, s.IsAttack, s.Level,
		strconv.FormatFloat(s.BaseTime, 'g', -1, 64),
		strconv.FormatFloat(s.ManaCost, 'g', -1, 64),
		strconv.FormatFloat(s.Effectiveness, 'g', -1, 64),
		cooldown)
	damageTypes := sortedKeys(s.BaseDamage)
	for _, dt := range damageTypes {
		mm := s.BaseDamage[dt]
		fmt.Fprintf(b, "dmg:%s=%s,%s;", dt, strconv.FormatFloat(mm[0], 'g', -1, 64), strconv.FormatFloat(mm[1], 'g', -1, 64))
	}
	for _, st := range s.Stats {
		writeStat(b, st)
	}
	fmt.Fprintf(b, "mana_mult:%s;", strconv.FormatFloat(s.ManaMultiplier, 'g', -1, 64))

	tagNames := append([]string(nil), s.Tags...)
	sort.Strings(tagNames)
	b.WriteString(strings.Join(tagNames, ","))
	b.WriteByte(';')

	injected := append([]string(nil), s.InjectedTags...)
	sort.Strings(injected)
	b.WriteString(strings.Join(injected, ","))
	b.WriteByte(';')

	for _, r := range s.ScalingRules {
		fmt.Fprintf(b, "scale:%d:%s;", r.FromLevel, strconv.FormatFloat(r.PerLevel, 'g', -1, 64))
	}
}
