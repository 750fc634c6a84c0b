package cache

import (
	"context"
	"time"

	"github.com/matzehuels/causaltower/pkg/observability"
)

type instrumented struct {
	Cache
}

// Instrument wraps c so every Get and Set is reported to the registered
// observability cache hooks, labelled with the key type.
func Instrument(c Cache) Cache {
	if _, ok := c.(instrumented); ok {
		return c
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, hit, nil
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}
