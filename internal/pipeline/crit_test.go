package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/torchlit/buildcalc/internal/modifier"
)

func TestCalculateCritCannotCritZeroesChance(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "crit.chance", Kind: modifier.BaseAdd, Value: 1.0})

	ctx := emptyCtx(t)
	result := calculateCrit(store, ctx, true, false)
	assert.Equal(t, 0.0, result.Chance)
	assert.Equal(t, 1.0, result.ExpectedFactor)
}

func TestCalculateCritLuckyReshaping(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "crit.chance", Kind: modifier.BaseAdd, Value: 0.40})

	ctx := emptyCtx(t)
	result := calculateCrit(store, ctx, false, true)
	// 1 - (1-0.40)^2 = 1 - 0.36 = 0.64
	assert.InDelta(t, 0.64, result.Chance, 1e-9)
}

func TestCalculateCritExpectedFactorWithDefaultMultiplier(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "crit.chance", Kind: modifier.BaseAdd, Value: 0.50})

	ctx := emptyCtx(t)
	result := calculateCrit(store, ctx, false, false)
	assert.Equal(t, 1.5, result.Multiplier)
	// 1 + 0.5 * (1.5 - 1) = 1.25
	assert.InDelta(t, 1.25, result.ExpectedFactor, 1e-9)
}

func TestCalculateCritChanceClampedToOne(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "crit.chance", Kind: modifier.BaseAdd, Value: 3.0})

	ctx := emptyCtx(t)
	result := calculateCrit(store, ctx, false, false)
	assert.Equal(t, 1.0, result.Chance)
}

func TestCalculateCritMultiplierAffixesAddToDefault(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "crit.multiplier", Kind: modifier.BaseAdd, Value: 1.0})

	ctx := emptyCtx(t)
	result := calculateCrit(store, ctx, false, false)
	assert.Equal(t, 2.5, result.Multiplier)
}
