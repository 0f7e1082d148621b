package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrCacheMiss means the key is absent. Absence always means "load and
// populate", never "does not exist".
var ErrCacheMiss = errors.New("cache miss")

// Store is the byte-level cache contract. Set with ttl <= 0 uses the store's
// base TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Ownership-scoped key builders. Embedding the user id keeps one user's cached
// entries from ever being served to another.
func CartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func OrderKey(userID, orderID string) string {
	return fmt.Sprintf("order:%s:%s", userID, orderID)
}

func OrderListKey(userID string) string {
	return fmt.Sprintf("orders:%s", userID)
}

// ReadThrough returns the cached value for key or computes it with load and
// populates the cache before returning. Cache failures degrade to the loader;
// they are logged, never surfaced to the caller.
func ReadThrough[T any](ctx context.Context, store Store, logger *zap.Logger, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	data, err := store.Get(ctx, key)
	if err == nil {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		// Corrupt entry: drop it and fall through to the loader.
		if err := store.Delete(ctx, key); err != nil {
			logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if err := WriteThrough(ctx, store, key, value); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// WriteThrough overwrites the cache entry with a freshly computed value.
// Mutations call it (or Store.Delete) before the operation is considered
// complete.
func WriteThrough(ctx context.Context, store Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return store.Set(ctx, key, data, 0)
}
