package main

import (
	"fmt"
	"time"

	"github.com/torchlit/buildcalc/internal/cache"
	"github.com/torchlit/buildcalc/internal/engine"
	"github.com/torchlit/buildcalc/internal/redis"
	"github.com/torchlit/buildcalc/internal/registryconfig"
	"github.com/torchlit/buildcalc/internal/tags"
)

const distributedTierTTL = 10 * time.Minute

// buildCalculator assembles an engine.Calculator from the root command's
// persistent flags: a YAML registry config if one was given (an empty
// auto-interning registry otherwise) and an optional Redis-backed
// distributed cache tier.
func buildCalculator() (engine.Calculator, error) {
	cfg := &engine.Config{ResultCacheCapacity: cacheCapacity}

	if registryPath != "" {
		loaded, err := registryconfig.Load(registryPath, nil)
		if err != nil {
			return nil, fmt.Errorf("calcctl: loading registry config: %w", err)
		}
		cfg.Registry = loaded.Registry
		cfg.Mechanics = loaded.Mechanics
	} else {
		registry, err := tags.Build(nil, tags.PolicyAutoIntern)
		if err != nil {
			return nil, fmt.Errorf("calcctl: building default registry: %w", err)
		}
		cfg.Registry = registry
	}

	if redisAddr != "" {
		client, err := redis.NewClient(redisAddr, nil)
		if err != nil {
			return nil, fmt.Errorf("calcctl: connecting to redis: %w", err)
		}
		cfg.Distributed = cache.NewDistributedTier(client, "", distributedTierTTL)
	}

	return engine.New(cfg)
}
