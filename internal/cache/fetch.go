package cache

import (
	"context"
	"fmt"
	"time"
)

// Fetch returns the cached value for key or loads it, stores it with ttl and returns it.
// Concurrent misses for the same key in the same store share one load. The load runs with
// ctx's values but not its cancellation, since callers other than the first may be waiting
// on it. Errors are returned as-is and never cached.
func Fetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err, _ := s.flight.Do(key, func() (any, error) {
		// another caller may have filled it while we queued
		if v, ok := s.lookup(key, false); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
		loaded, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.Set(key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s:%s holds %T", s.namespace, key, v)
	}
	return typed, nil
}
