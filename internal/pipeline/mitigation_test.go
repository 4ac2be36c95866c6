package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/torchlit/buildcalc/internal/conversion"
	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
)

func TestSaturateClampsInfinities(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, saturate(math.Inf(1)))
	assert.Equal(t, -math.MaxFloat64, saturate(math.Inf(-1)))
	assert.Equal(t, 42.0, saturate(42.0))
}

func TestApplyMitigationResistancePenetrationFloor(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "pen.fire", Kind: modifier.BaseAdd, Value: 1.90})

	ctx := emptyCtx(t)
	target := model.TargetConfig{Resistances: map[string]float64{"fire": -0.10}}
	byType := map[conversion.DamageType]float64{conversion.Fire: 100}

	out := applyMitigation(store, ctx, byType, target)
	// resEff = -0.10 - 1.90 = -2.00, exactly at the floor, so the clamp in
	// the damage formula sees -2.0: 100 * (1 - (-2.0)) = 300
	assert.Len(t, out, 1)
	assert.InDelta(t, 300.0, out[0].Amount, 1e-9)
}

func TestApplyMitigationArmorRetentionCurve(t *testing.T) {
	store := modifier.NewStore()
	ctx := emptyCtx(t)
	target := model.TargetConfig{Armor: 1000, ArmorMitigationK: 10}
	byType := map[conversion.DamageType]float64{conversion.Physical: 100}

	out := applyMitigation(store, ctx, byType, target)
	expected := 100.0 * (100.0 / (100.0 + 1000.0*10.0))
	assert.InDelta(t, expected, out[0].Amount, 1e-9)
}

func TestApplyMitigationArmorOnlyAppliesToPhysical(t *testing.T) {
	store := modifier.NewStore()
	ctx := emptyCtx(t)
	target := model.TargetConfig{Armor: 1000}
	byType := map[conversion.DamageType]float64{conversion.Fire: 100}

	out := applyMitigation(store, ctx, byType, target)
	assert.Equal(t, 100.0, out[0].Amount)
}

func TestApplyMitigationGenericDR(t *testing.T) {
	store := modifier.NewStore()
	ctx := emptyCtx(t)
	target := model.TargetConfig{GenericDR: 0.10}
	byType := map[conversion.DamageType]float64{conversion.Chaos: 100}

	out := applyMitigation(store, ctx, byType, target)
	assert.InDelta(t, 90.0, out[0].Amount, 1e-9)
}

func TestHitChanceSpellAlwaysHits(t *testing.T) {
	store := modifier.NewStore()
	ctx := emptyCtx(t)
	assert.Equal(t, 1.0, hitChance(store, ctx, false, 500))
}

func TestHitChanceAttackFormula(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "acc.rating", Kind: modifier.BaseAdd, Value: 1000})

	ctx := emptyCtx(t)
	got := hitChance(store, ctx, true, 500)
	// 1000*1.5/(1000+500) = 1.0, clamped
	assert.Equal(t, 1.0, got)
}

func TestEHPSeriesDivideByMitigatedFraction(t *testing.T) {
	mitigated := []mitigatedDamage{{Type: conversion.Fire, Amount: 50, MitigatedFraction: 0.5}}
	out := ehpSeries(1000, mitigated)
	assert.InDelta(t, 2000.0, out["fire"], 1e-9)
}

func TestEHPSeriesSaturatesAtFullMitigation(t *testing.T) {
	mitigated := []mitigatedDamage{{Type: conversion.Physical, Amount: 0, MitigatedFraction: 1.0}}
	out := ehpSeries(1000, mitigated)
	assert.Equal(t, math.MaxFloat64, out["physical"])
}
