// Package registryconfig loads the tag registry and mechanic definitions
// the calculator needs at process startup from YAML configuration
// documents, the Go-idiomatic analogue of building a tag registry from a
// JSON definition file.
package registryconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/torchlit/buildcalc/internal/errors"
	"github.com/torchlit/buildcalc/internal/mechanic"
	"github.com/torchlit/buildcalc/internal/tags"
)

// TagDocument is the on-disk shape of a single tag definition.
type TagDocument struct {
	Key      string   `yaml:"key"`
	Category string   `yaml:"category"`
	Parents  []string `yaml:"parents,omitempty"`
}

// MechanicDocument is the on-disk shape of a single mechanic definition.
type MechanicDocument struct {
	ID                 string             `yaml:"id"`
	DisplayName        string             `yaml:"display_name"`
	Category           string             `yaml:"category"`
	TagKey             string             `yaml:"tag_key"`
	DefaultMaxStacks   int                `yaml:"default_max_stacks"`
	BaseEffectPerStack map[string]float64 `yaml:"base_effect_per_stack"`
	Description        string             `yaml:"description,omitempty"`
}

// Document is the top-level shape of a registry config file: a flat list
// of tags and a flat list of mechanics, plus the unknown-tag policy the
// file was authored against.
type Document struct {
	UnknownTagPolicy string             `yaml:"unknown_tag_policy"`
	Tags             []TagDocument      `yaml:"tags"`
	Mechanics        []MechanicDocument `yaml:"mechanics"`
}

// PolicyHook lets a caller override the unknown-tag policy a loaded
// document requests, e.g. to force a strict policy in one environment
// regardless of what a config file shared across environments specifies.
// A nil hook leaves the document's own policy in effect.
type PolicyHook interface {
	ResolvePolicy(documentPolicy tags.UnknownTagPolicy) tags.UnknownTagPolicy
}

// Loaded is the product of Load: a built tag registry plus the mechanic
// definitions the engine facade needs to construct a mechanic.Processor
// per calculation.
type Loaded struct {
	Registry  *tags.Registry
	Mechanics []mechanic.Definition
}

func parsePolicy(name string) (tags.UnknownTagPolicy, error) {
	switch name {
	case "", "auto_intern":
		return tags.PolicyAutoIntern, nil
	case "fail":
		return tags.PolicyFail, nil
	default:
		return tags.PolicyFail, errors.InvalidArgumentf("registryconfig: unknown unknown_tag_policy %q", name).WithMeta("field", "unknown_tag_policy")
	}
}

// Load reads a YAML registry config document from path and builds a tag
// registry and mechanic definition list from it. hook, if non-nil, gets a
// chance to override the policy the document requests.
func Load(path string, hook PolicyHook) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registryconfig: reading %s: %w", path, err)
	}
	return Parse(data, hook)
}

// Parse builds a tag registry and mechanic definition list from an
// already-read YAML document. Load is Parse plus the file read.
func Parse(data []byte, hook PolicyHook) (*Loaded, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("registryconfig: parsing document: %w", err)
	}

	policy, err := parsePolicy(doc.UnknownTagPolicy)
	if err != nil {
		return nil, err
	}
	if hook != nil {
		policy = hook.ResolvePolicy(policy)
	}

	defs := make([]tags.Definition, len(doc.Tags))
	for i, t := range doc.Tags {
		defs[i] = tags.Definition{
			Key:      t.Key,
			Category: tags.Category(t.Category),
			Parents:  t.Parents,
		}
	}

	registry, err := tags.Build(defs, policy)
	if err != nil {
		return nil, err
	}

	mechanics := make([]mechanic.Definition, len(doc.Mechanics))
	for i, m := range doc.Mechanics {
		mechanics[i] = mechanic.Definition{
			ID:                 m.ID,
			DisplayName:        m.DisplayName,
			Category:           m.Category,
			TagKey:             m.TagKey,
			DefaultMaxStacks:   m.DefaultMaxStacks,
			BaseEffectPerStack: m.BaseEffectPerStack,
			Description:        m.Description,
		}
	}

	return &Loaded{Registry: registry, Mechanics: mechanics}, nil
}
