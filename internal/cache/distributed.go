package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/redis"
)

// DistributedCache is the second-tier cache interface the engine facade
// depends on, so it can be swapped for a mock in tests or a different
// backend without the facade knowing about Redis at all. *DistributedTier
// is the only production implementation.
type DistributedCache interface {
	Get(ctx context.Context, key Fingerprint) (model.CalculatorOutput, bool, error)
	Put(ctx context.Context, key Fingerprint, output model.CalculatorOutput) error
}

// DistributedTier is an optional Redis-backed cache sitting behind the
// in-process Cache, for deployments that run more than one calculator
// instance and want cache hits to survive a pod restart or land on a
// different instance than the one that computed the result.
type DistributedTier struct {
	client redis.Client
	ttl    time.Duration
	prefix string
}

// NewDistributedTier wraps client with a key prefix and per-entry TTL.
func NewDistributedTier(client redis.Client, prefix string, ttl time.Duration) *DistributedTier {
	if prefix == "" {
		prefix = "buildcalc:calc:"
	}
	return &DistributedTier{client: client, prefix: prefix, ttl: ttl}
}

func (d *DistributedTier) redisKey(key Fingerprint) string {
	return fmt.Sprintf("%s%d", d.prefix, uint64(key))
}

// Get looks up a fingerprint in the distributed tier.
func (d *DistributedTier) Get(ctx context.Context, key Fingerprint) (model.CalculatorOutput, bool, error) {
	raw, err := d.client.Get(ctx, d.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.CalculatorOutput{}, false, nil
		}
		return model.CalculatorOutput{}, false, err
	}

	var out model.CalculatorOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.CalculatorOutput{}, false, err
	}
	return out, true, nil
}

// Put stores output under key with the tier's configured TTL.
func (d *DistributedTier) Put(ctx context.Context, key Fingerprint, output model.CalculatorOutput) error {
	raw, err := json.Marshal(output)
	if err != nil {
		return err
	}
	return d.client.Set(ctx, d.redisKey(key), raw, d.ttl).Err()
}
