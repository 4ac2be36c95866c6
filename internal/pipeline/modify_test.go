package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torchlit/buildcalc/internal/condition"
	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/modifier"
	"github.com/torchlit/buildcalc/internal/tags"
)

// TestApplyModificationMultipliesEveryRetainedProvenanceTag reproduces the
// tag-retention scenario by hand: 50 physical damage converted entirely to
// fire still carries its physical identity tag, so a 10% increased physical
// modifier and a 10% increased fire modifier both apply, multiplicatively:
// 50 * 1.10 * 1.10 = 60.5, not 50 * 1.20 = 60.
func TestApplyModificationMultipliesEveryRetainedProvenanceTag(t *testing.T) {
	registry, err := tags.Build(nil, tags.PolicyAutoIntern)
	require.NoError(t, err)
	engine, err := conversion.NewEngine(registry)
	require.NoError(t, err)

	// modifier.Store keys are pre-classified by internal/stat in production;
	// here the modifiers are added directly under their post-classification
	// target keys (dmg.physical / dmg.fire) to isolate this stage.
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "dmg.physical", Kind: modifier.Increased, Value: 0.10})
	store.Add(modifier.Modifier{StatKey: "dmg.fire", Kind: modifier.Increased, Value: 0.10})

	base := map[conversion.DamageType]float64{conversion.Physical: 50}
	pool := engine.Process(base, registry.EmptySet(), nil, []conversion.ConversionRule{
		{Src: conversion.Physical, Dst: conversion.Fire, Value: 1.0},
	})

	ctx := condition.NewContext(registry.EmptySet())
	modified := applyModification(store, registry, ctx, pool)

	total := totalByType(modified)
	assert.InDelta(t, 60.5, total[conversion.Fire], 1e-9)
}

func TestApplyModificationSingleTypeNoConversion(t *testing.T) {
	registry, err := tags.Build(nil, tags.PolicyAutoIntern)
	require.NoError(t, err)
	engine, err := conversion.NewEngine(registry)
	require.NoError(t, err)

	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "dmg.fire", Kind: modifier.Increased, Value: 0.50})
	store.Add(modifier.Modifier{StatKey: "dmg.fire", Kind: modifier.More, Bucket: "a", Value: 0.20})

	base := map[conversion.DamageType]float64{conversion.Fire: 100}
	pool := engine.Process(base, registry.EmptySet(), nil, nil)

	ctx := condition.NewContext(registry.EmptySet())
	modified := applyModification(store, registry, ctx, pool)

	total := totalByType(modified)
	// 100 * 1.50 * 1.20 = 180
	assert.InDelta(t, 180.0, total[conversion.Fire], 1e-9)
}

// TestApplyModificationAppliesAllTypesFactorRegardlessOfProvenance covers
// dmg.all: it must apply to every entry even when that entry's provenance
// carries neither a physical nor a fire identity tag.
func TestApplyModificationAppliesAllTypesFactorRegardlessOfProvenance(t *testing.T) {
	registry, err := tags.Build(nil, tags.PolicyAutoIntern)
	require.NoError(t, err)
	engine, err := conversion.NewEngine(registry)
	require.NoError(t, err)

	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "dmg.all", Kind: modifier.Increased, Value: 0.20})
	store.Add(modifier.Modifier{StatKey: "dmg.cold", Kind: modifier.Increased, Value: 0.10})

	base := map[conversion.DamageType]float64{conversion.Cold: 100}
	pool := engine.Process(base, registry.EmptySet(), nil, nil)

	ctx := condition.NewContext(registry.EmptySet())
	modified := applyModification(store, registry, ctx, pool)

	total := totalByType(modified)
	// 100 * 1.20 (all) * 1.10 (cold) = 132
	assert.InDelta(t, 132.0, total[conversion.Cold], 1e-9)
}

func TestTotalByTypeSumsAcrossEntries(t *testing.T) {
	entries := []modifiedEntry{
		{Type: conversion.Fire, Amount: 10},
		{Type: conversion.Fire, Amount: 5},
		{Type: conversion.Cold, Amount: 2},
	}
	total := totalByType(entries)
	assert.Equal(t, 15.0, total[conversion.Fire])
	assert.Equal(t, 2.0, total[conversion.Cold])
}

func TestToBreakdownHistoryMergesHistoryTags(t *testing.T) {
	entries := []modifiedEntry{
		{Type: conversion.Fire, Amount: 10, HistoryTags: []string{"physical", "fire"}},
		{Type: conversion.Fire, Amount: 5, HistoryTags: []string{"fire"}},
	}
	out := toBreakdownHistory(entries)
	assert.Equal(t, 15.0, out["fire"].Amount)
	assert.ElementsMatch(t, []string{"physical", "fire"}, out["fire"].HistoryTags)
}
