package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of requests that were already processed,
// along with the result reference produced for them.
type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns false when the key already exists.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result reference for a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Result returns the stored result reference, or "" when the key is
	// unknown or still in flight
	Result(ctx context.Context, key string) (string, error)

	// Release drops a reservation so the request may be retried
	Release(ctx context.Context, key string) error

	Close() error
}
