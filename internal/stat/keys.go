// Package stat implements the stat aggregator: it assembles a modifier
// store and active tag-set from equipment, skills, supports, mechanics,
// and overrides, honoring the local-before-global and sanitization
// ordering the rest of the pipeline depends on.
package stat

import (
	"strings"

	"github.com/torchlit/buildcalc/internal/modifier"
)

const (
	prefixIncreased = "mod.inc."
	prefixMore      = "mod.more."
	prefixFlag      = "flag."
)

// classify maps a raw stat key onto the modifier kind and target key it
// describes, per the reserved stat-key namespace: mod.inc.<key> and
// mod.more.<key> describe INCREASED/MORE contributions to <key>; flag.<key>
// describes a FLAG contribution to <key>. Everything else (dmg., crit.,
// speed., pen., conv., extra., res., def., base., acc., and any other
// literal key) is a direct BASE_ADD contribution to itself.
func classify(key string) (modifier.Kind, string) {
	switch {
	case strings.HasPrefix(key, prefixIncreased):
		return modifier.Increased, key[len(prefixIncreased):]
	case strings.HasPrefix(key, prefixMore):
		return modifier.More, key[len(prefixMore):]
	case strings.HasPrefix(key, prefixFlag):
		return modifier.Flag, key[len(prefixFlag):]
	default:
		return modifier.BaseAdd, key
	}
}
