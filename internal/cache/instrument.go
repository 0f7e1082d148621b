package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented decorates a Store with hit/miss counters.
type Instrumented struct {
	inner  Store
	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewInstrumented(inner Store, hits, misses prometheus.Counter) *Instrumented {
	return &Instrumented{inner: inner, hits: hits, misses: misses}
}

func (s *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.inner.Get(ctx, key)
	switch {
	case err == nil:
		s.hits.Inc()
	case errors.Is(err, ErrCacheMiss):
		s.misses.Inc()
	}
	return data, err
}

func (s *Instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, key, value, ttl)
}

func (s *Instrumented) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}
