package cache

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ReadThrough returns the cached value for key or computes it with load and
// stores it for key.TTL(). Cache failures degrade to a miss; load errors propagate.
func ReadThrough[T any](ctx context.Context, c Cache, log logrus.FieldLogger, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	k := key.String()
	if c != nil {
		var cached T
		hit, err := c.GetJSON(ctx, k, &cached)
		if err != nil && log != nil {
			log.WithError(err).WithField("cache_key", k).Warn("cache read failed")
		}
		if err == nil && hit {
			return cached, nil
		}
	}

	val, err := load(ctx)
	if err != nil {
		return val, err
	}

	if c != nil {
		if err := c.SetJSON(ctx, k, val, key.TTL()); err != nil && log != nil {
			log.WithError(err).WithField("cache_key", k).Warn("cache write failed")
		}
	}
	return val, nil
}
