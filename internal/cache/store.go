package cache

import (
	"context"
	"time"
)

// Store is the shared cache interface used across the application.
// Implementations must treat a missing key as (nil, false, nil), never as an
// error: callers rely on the distinction between absence and unavailability.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Ping(ctx context.Context) error
}
