package registryconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/torchlit/buildcalc/internal/registryconfig"
	registryconfigmock "github.com/torchlit/buildcalc/internal/registryconfig/mock"
	"github.com/torchlit/buildcalc/internal/tags"
)

const sampleDoc = `
unknown_tag_policy: fail
tags:
  - key: physical
    category: identity
  - key: fire
    category: identity
  - key: elemental
    category: identity
  - key: fire
    category: identity
    parents: [elemental]
mechanics:
  - id: rage
    display_name: Rage
    category: resource
    tag_key: has_rage
    default_max_stacks: 10
    base_effect_per_stack:
      mod.inc.dmg.physical: 0.02
`

func TestParseRejectsDuplicateTagKeys(t *testing.T) {
	_, err := registryconfig.Parse([]byte(sampleDoc), nil)
	require.Error(t, err)
}

func TestParseValidDocument(t *testing.T) {
	doc := `
unknown_tag_policy: auto_intern
tags:
  - key: physical
    category: identity
  - key: elemental
    category: identity
  - key: fire
    category: identity
    parents: [elemental]
mechanics:
  - id: rage
    display_name: Rage
    category: resource
    tag_key: has_rage
    default_max_stacks: 10
    base_effect_per_stack:
      mod.inc.dmg.physical: 0.02
`
	loaded, err := registryconfig.Parse([]byte(doc), nil)
	require.NoError(t, err)
	require.NotNil(t, loaded.Registry)
	require.Len(t, loaded.Mechanics, 1)
	assert.Equal(t, "rage", loaded.Mechanics[0].ID)
	assert.Equal(t, 0.02, loaded.Mechanics[0].BaseEffectPerStack["mod.inc.dmg.physical"])

	fireID, ok := loaded.Registry.Lookup("fire")
	require.True(t, ok)
	elementalID, ok := loaded.Registry.Lookup("elemental")
	require.True(t, ok)
	assert.True(t, loaded.Registry.Closure(fireID).Contains(elementalID))
}

func TestParseRejectsUnknownPolicyName(t *testing.T) {
	_, err := registryconfig.Parse([]byte("unknown_tag_policy: yolo\n"), nil)
	require.Error(t, err)
}

func TestParseHonorsPolicyHookOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hook := registryconfigmock.NewMockPolicyHook(ctrl)
	hook.EXPECT().ResolvePolicy(tags.PolicyAutoIntern).Return(tags.PolicyFail)

	doc := `
unknown_tag_policy: auto_intern
tags:
  - key: physical
    category: identity
`
	loaded, err := registryconfig.Parse([]byte(doc), hook)
	require.NoError(t, err)

	_, err = loaded.Registry.Intern("never_declared")
	require.Error(t, err)
}
