package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/modifier"
)

func TestCalculateRateAttackFamily(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Increased, Value: 0.20})

	ctx := emptyCtx(t)
	skill := model.Skill{IsAttack: true, BaseTime: 1.0}

	rate := calculateRate(store, ctx, skill)
	assert.InDelta(t, 1.2, rate, 1e-9)
}

func TestCalculateRateCastFamily(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "speed.cast", Kind: modifier.Increased, Value: 0.50})

	ctx := emptyCtx(t)
	skill := model.Skill{IsAttack: false, BaseTime: 1.0}

	rate := calculateRate(store, ctx, skill)
	assert.InDelta(t, 1.5, rate, 1e-9)
}

func TestCalculateRateCooldownCaps(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "speed.cast", Kind: modifier.Increased, Value: 10.0})

	ctx := emptyCtx(t)
	cooldown := 2.0
	skill := model.Skill{IsAttack: false, BaseTime: 1.0, Cooldown: &cooldown}

	rate := calculateRate(store, ctx, skill)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestCalculateRateOverrideDisplacesMultiplierOnly(t *testing.T) {
	store := modifier.NewStore()
	store.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Override, Value: 3.0})
	store.Add(modifier.Modifier{StatKey: "speed.attack", Kind: modifier.Increased, Value: 10.0})

	ctx := emptyCtx(t)
	skill := model.Skill{IsAttack: true, BaseTime: 2.0}

	rate := calculateRate(store, ctx, skill)
	// base_time scaling still applies after the override replaces the
	// (increased, more) term: (1/2.0) * 3.0 = 1.5
	assert.InDelta(t, 1.5, rate, 1e-9)
}

func TestCalculateRateDefaultsBaseTimeToOne(t *testing.T) {
	store := modifier.NewStore()
	ctx := emptyCtx(t)
	skill := model.Skill{IsAttack: true}

	rate := calculateRate(store, ctx, skill)
	assert.Equal(t, 1.0, rate)
}
