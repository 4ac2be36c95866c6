package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/modifier"
	"github.com/torchlit/buildcalc/internal/tags"
)

func emptyCtx(t *testing.T) *condition.Context {
	t.Helper()
	registry, err := tags.Build(nil, tags.PolicyAutoIntern)
	require.NoError(t, err)
	return condition.NewContext(registry.EmptySet())
}

func TestSumBase(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "dmg.fire.min", Kind: modifier.BaseAdd, Value: 10})
	s.Add(modifier.Modifier{StatKey: "dmg.fire.min", Kind: modifier.BaseAdd, Value: 5})

	ctx := emptyCtx(t)
	assert.Equal(t, 15.0, s.SumBase("dmg.fire.min", ctx))
}

func TestSumIncreasedEmptyIsZero(t *testing.T) {
	s := modifier.NewStore()
	ctx := emptyCtx(t)
	assert.Equal(t, 0.0, s.SumIncreased("dmg.fire", ctx))
}

func TestProductMoreEmptyIsOne(t *testing.T) {
	s := modifier.NewStore()
	ctx := emptyCtx(t)
	assert.Equal(t, 1.0, s.ProductMore("dmg.all", ctx))
}

func TestProductMoreBucketedSumThenMultiply(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "dmg.all", Kind: modifier.More, Bucket: "frenzy", Value: 0.20})
	s.Add(modifier.Modifier{StatKey: "dmg.all", Kind: modifier.More, Bucket: "frenzy", Value: 0.30})
	s.Add(modifier.Modifier{StatKey: "dmg.all", Kind: modifier.More, Bucket: "empower", Value: 0.10})

	ctx := emptyCtx(t)
	got := s.ProductMore("dmg.all", ctx)
	assert.InDelta(t, 1.65, got, 1e-9)
}

func TestAnyFlag(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "crit.cannot", Kind: modifier.Flag, Value: 1})

	ctx := emptyCtx(t)
	assert.True(t, s.AnyFlag("crit.cannot", ctx))
	assert.False(t, s.AnyFlag("crit.other", ctx))
}

func TestOverrideHighestPriorityWins(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Override, Value: 1.0, Priority: 1})
	s.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Override, Value: 2.0, Priority: 5})

	ctx := emptyCtx(t)
	v, ok := s.Override("speed.attack", ctx)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestOverrideTieBreaksByInsertionOrder(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Override, Value: 1.0, Priority: 3})
	s.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Override, Value: 2.0, Priority: 3})

	ctx := emptyCtx(t)
	v, ok := s.Override("speed.attack", ctx)
	require.True(t, ok)
	assert.Equal(t, 1.0, v, "first-inserted modifier should win a priority tie")
}

func TestOverrideNoneApplicable(t *testing.T) {
	s := modifier.NewStore()
	ctx := emptyCtx(t)
	_, ok := s.Override("speed.attack", ctx)
	assert.False(t, ok)
}

func TestTagRequirementsGateContribution(t *testing.T) {
	registry, err := tags.Build([]tags.Definition{
		{Key: "fire", Category: tags.CategoryIdentity},
		{Key: "cold", Category: tags.CategoryIdentity},
	}, tags.PolicyFail)
	require.NoError(t, err)

	fireOnly, err := registry.SetFromNames([]string{"fire"})
	require.NoError(t, err)

	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "dmg.bonus", Kind: modifier.BaseAdd, Value: 10, TagRequirements: fireOnly})

	activeFire, err := registry.SetFromNames([]string{"fire"})
	require.NoError(t, err)
	activeCold, err := registry.SetFromNames([]string{"cold"})
	require.NoError(t, err)

	assert.Equal(t, 10.0, s.SumBase("dmg.bonus", condition.NewContext(activeFire)))
	assert.Equal(t, 0.0, s.SumBase("dmg.bonus", condition.NewContext(activeCold)))
}

func TestConditionGatesContribution(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{
		StatKey:   "dmg.bonus",
		Kind:      modifier.BaseAdd,
		Value:     10,
		Condition: condition.Flag{Name: "low_life"},
	})

	low := emptyCtx(t)
	low.Flags["low_life"] = true
	assert.Equal(t, 10.0, s.SumBase("dmg.bonus", low))

	notLow := emptyCtx(t)
	assert.Equal(t, 0.0, s.SumBase("dmg.bonus", notLow))
}

func TestPerStatScaling(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{
		StatKey: "dmg.fire.inc",
		Kind:    modifier.Increased,
		Value:   0.01,
		PerStat: &modifier.PerStatConfig{StatKey: "attr.dexterity", Per: 10},
	})

	ctx := emptyCtx(t)
	ctx.Values["attr.dexterity"] = 35
	assert.InDelta(t, 0.035, s.SumIncreased("dmg.fire.inc", ctx), 1e-9)
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "dmg.fire.min", Kind: modifier.BaseAdd, Value: 10, Source: "ring"})

	clone := s.Clone()
	clone.Add(modifier.Modifier{StatKey: "dmg.fire.min", Kind: modifier.BaseAdd, Value: 5, Source: "amulet"})

	ctx := emptyCtx(t)
	assert.Equal(t, 10.0, s.SumBase("dmg.fire.min", ctx))
	assert.Equal(t, 15.0, clone.SumBase("dmg.fire.min", ctx))
}

func TestRemoveSourceDropsBareAndAffixSuffixedEntries(t *testing.T) {
	s := modifier.NewStore()
	s.Add(modifier.Modifier{StatKey: "dmg.fire.min", Kind: modifier.BaseAdd, Value: 10, Source: "ring_a"})
	s.Add(modifier.Modifier{StatKey: "mod.inc.dmg.fire", Kind: modifier.Increased, Value: 0.1, Source: "ring_a:affix1"})
	s.Add(modifier.Modifier{StatKey: "dmg.fire.min", Kind: modifier.BaseAdd, Value: 20, Source: "ring_b"})

	s.RemoveSource("ring_a")

	ctx := emptyCtx(t)
	assert.Equal(t, 20.0, s.SumBase("dmg.fire.min", ctx))
	assert.Equal(t, 0.0, s.SumIncreased("mod.inc.dmg.fire", ctx))
}
