// Package model holds the domain types the calculator operates on: the
// external input/output envelope shapes and the handful of resolved types
// (target config, prepared skill/mechanic records) shared across the
// stat aggregator, conversion engine, and pipeline executor.
package model

// TargetConfig describes the defender a hit is being calculated against.
type TargetConfig struct {
	Level            int                `json:"level"`
	DefenseConstant  float64            `json:"defense_constant"`
	Resistances      map[string]float64 `json:"resistances"`
	GenericDR        float64            `json:"generic_dr"`
	Armor            float64            `json:"armor"`
	Evasion          float64            `json:"evasion"`
	LifePool         float64            `json:"life_pool"`
	ArmorMitigationK float64            `json:"armor_mitigation_k"`
}

// DefaultArmorMitigationK is used when a target config leaves
// ArmorMitigationK at its zero value. The armor mitigation curve
// raw / (raw + armor*k) is genre-conventional; this value gives a
// moderately geared target roughly 50% physical mitigation, matching the
// weight other action-RPG damage calculators give armor relative to flat
// resistance.
const DefaultArmorMitigationK = 10.0

// EffectiveArmorK returns the target's configured armor constant, or the
// default if unset.
func (t TargetConfig) EffectiveArmorK() float64 {
	if t.ArmorMitigationK == 0 {
		return DefaultArmorMitigationK
	}
	return t.ArmorMitigationK
}

// DefaultDefenseConstant is the level constant the defense multiplier zone
// uses when a target config leaves DefenseConstant at its zero value.
const DefaultDefenseConstant = 1000.0

// EffectiveDefenseConstant returns the target's configured level constant,
// or the default if unset.
func (t TargetConfig) EffectiveDefenseConstant() float64 {
	if t.DefenseConstant == 0 {
		return DefaultDefenseConstant
	}
	return t.DefenseConstant
}

// Stat is a flat numeric stat contribution, keyed by stat_key.
type Stat struct {
	Key    string  `json:"key"`
	Value  float64 `json:"value"`
	Bucket string  `json:"bucket,omitempty"`
	Local  bool    `json:"local,omitempty"`
}

// Affix carries its own stats, tags, and an optional activation predicate
// name. The predicate is part of the cache fingerprint, but the stat
// aggregator does not evaluate it: an affix's stats always apply.
type Affix struct {
	ID         string   `json:"id"`
	Stats      []Stat   `json:"stats"`
	Tags       []string `json:"tags"`
	Predicate  string   `json:"predicate,omitempty"`
}

// SlotType names an equipment slot.
type SlotType string

const (
	SlotMainHand SlotType = "main_hand"
	SlotOffHand  SlotType = "off_hand"
	SlotHelm     SlotType = "helm"
	SlotBody     SlotType = "body"
	SlotGloves   SlotType = "gloves"
	SlotBoots    SlotType = "boots"
	SlotRing     SlotType = "ring"
	SlotAmulet   SlotType = "amulet"
	SlotBelt     SlotType = "belt"
)

// Item is an equippable piece of gear.
type Item struct {
	ID            string   `json:"id"`
	BaseType      string   `json:"base_type"`
	Slot          SlotType `json:"slot"`
	IsTwoHanded   bool     `json:"is_two_handed"`
	ImplicitStats []Stat   `json:"implicit_stats"`
	Affixes       []Affix  `json:"affixes"`
	Tags          []string `json:"tags"`
	IsCorrupted   bool     `json:"is_corrupted"`
	LimitationKey string   `json:"limitation_key,omitempty"`
}

// SkillKind classifies a skill record.
type SkillKind string

const (
	SkillActive  SkillKind = "active"
	SkillSupport SkillKind = "support"
	SkillAura    SkillKind = "aura"
)

// SkillScalingRule overrides the default per-level scaling curve above the
// level threshold it names.
type SkillScalingRule struct {
	FromLevel int     `json:"from_level"`
	PerLevel  float64 `json:"per_level"`
}

// Skill is an active skill, support gem, or aura contributing stats, tags,
// and (for supports) a mana-cost multiplier.
type Skill struct {
	ID            string             `json:"id"`
	Kind          SkillKind          `json:"skill_type"`
	DamageType    string             `json:"damage_type,omitempty"`
	IsAttack      bool               `json:"is_attack"`
	Level         int                `json:"level"`
	BaseDamage    map[string][2]float64 `json:"base_damage"`
	BaseTime      float64            `json:"base_time"`
	Cooldown      *float64           `json:"cooldown,omitempty"`
	ManaCost      float64            `json:"mana_cost"`
	Effectiveness float64            `json:"effectiveness"`
	Tags          []string           `json:"tags"`
	Stats         []Stat             `json:"stats"`
	InjectedTags  []string           `json:"injected_tags"`
	ManaMultiplier float64           `json:"mana_multiplier"`
	ScalingRules  []SkillScalingRule `json:"scaling_rules,omitempty"`
}

// PreviewSlot overrides a single slot on top of a base input, representing
// a hover comparison.
type PreviewSlot struct {
	SlotType SlotType `json:"slot_type"`
	Item     Item     `json:"item"`
}

// MechanicDefinition mirrors mechanic.Definition in the external envelope
// shape. Nothing converts between the two: the engine takes its mechanic
// definitions from its own Config, not from CalculatorInput.
type MechanicDefinition struct {
	ID                 string             `json:"id"`
	DisplayName        string             `json:"display_name"`
	Category           string             `json:"category"`
	TagKey             string             `json:"tag_key"`
	DefaultMaxStacks   int                `json:"default_max_stacks"`
	BaseEffectPerStack map[string]float64 `json:"base_effect_per_stack"`
	Description        string             `json:"description,omitempty"`
}

// MechanicState mirrors mechanic.State in the external envelope shape.
type MechanicState struct {
	ID            string `json:"id"`
	CurrentStacks int    `json:"current_stacks"`
	MaxStacks     int    `json:"max_stacks,omitempty"`
}

// CalculatorInput is the full external input envelope.
type CalculatorInput struct {
	ContextFlags        map[string]bool      `json:"context_flags"`
	ContextValues       map[string]float64   `json:"context_values"`
	TargetConfig        TargetConfig         `json:"target_config"`
	Items               []Item               `json:"items"`
	ActiveSkill         Skill                `json:"active_skill"`
	SupportSkills       []Skill              `json:"support_skills"`
	GlobalOverrides     map[string]float64   `json:"global_overrides"`
	MechanicDefinitions []MechanicDefinition `json:"mechanic_definitions,omitempty"`
	MechanicStates      []MechanicState      `json:"mechanic_states,omitempty"`
	PreviewSlot         *PreviewSlot         `json:"preview_slot,omitempty"`
	VarianceRoll        bool                 `json:"variance_roll,omitempty"`
}
