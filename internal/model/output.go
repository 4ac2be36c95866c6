package model

// ZoneSource names which stage of the pipeline a multiplier zone in a
// DamageBreakdown came from.
type ZoneSource string

const (
	ZoneBase        ZoneSource = "base"
	ZoneIncreased   ZoneSource = "increased"
	ZoneMore        ZoneSource = "more"
	ZoneCrit        ZoneSource = "crit"
	ZoneSpeed       ZoneSource = "speed"
	ZoneHit         ZoneSource = "hit"
	ZoneDefense     ZoneSource = "defense"
	ZoneResistance  ZoneSource = "resistance"
	ZoneVulnerable  ZoneSource = "vulnerability"
	ZoneMechanics   ZoneSource = "mechanics"
)

// MultiplierBreakdown records one zone's contribution to the final hit:
// its resolved scalar value and the stat keys that actually fed it, for a
// planner UI to render "why is my damage N" on hover without re-deriving
// the math client-side.
type MultiplierBreakdown struct {
	Zone       ZoneSource `json:"zone"`
	Multiplier float64    `json:"multiplier"`
	Sources    []string   `json:"sources,omitempty"`
}

// DamageWithHistory is a single post-conversion damage amount plus the
// provenance tag-set (by name) it carries.
type DamageWithHistory struct {
	Amount      float64  `json:"amount"`
	HistoryTags []string `json:"history_tags"`
}

// DamageBreakdown is the itemized accounting of how hit_damage was
// assembled.
type DamageBreakdown struct {
	ByType          map[string]float64           `json:"by_type"`
	BaseDamage      float64                      `json:"base_damage"`
	TotalIncreased  float64                      `json:"total_increased"`
	TotalMore       float64                      `json:"total_more"`
	AfterConversion map[string]DamageWithHistory `json:"after_conversion"`
	Multipliers     []MultiplierBreakdown        `json:"multipliers,omitempty"`
}

// TraceEntry is a single opt-in pipeline stage event.
type TraceEntry struct {
	Phase       string             `json:"phase"`
	Description string             `json:"description"`
	Values      map[string]float64 `json:"values,omitempty"`
	MatchedTags []string           `json:"matched_tags,omitempty"`
}

// CalculatorOutput is the full external output envelope.
type CalculatorOutput struct {
	RequestID       string             `json:"request_id,omitempty"`
	DPSTheoretical  float64            `json:"dps_theoretical"`
	DPSEffective    float64            `json:"dps_effective"`
	HitDamage       float64            `json:"hit_damage"`
	Rate            float64            `json:"rate"`
	CritChance      float64            `json:"crit_chance"`
	CritMultiplier  float64            `json:"crit_multiplier"`
	HitChance       float64            `json:"hit_chance"`
	EHPSeries       map[string]float64 `json:"ehp_series"`
	DamageBreakdown DamageBreakdown    `json:"damage_breakdown"`
	DebugTrace      []TraceEntry       `json:"debug_trace,omitempty"`
}

// CalculationDiff pairs a base and preview output with the per-field
// delta between them, for the calculate_diff external procedure.
type CalculationDiff struct {
	Base    CalculatorOutput   `json:"base"`
	Preview CalculatorOutput   `json:"preview"`
	Delta   map[string]float64 `json:"delta"`
}

// CacheStats reports the bounded LRU's current occupancy and hit rate.
type CacheStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Size     int   `json:"size"`
	Capacity int   `json:"capacity"`
}
