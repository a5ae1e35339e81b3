package cache

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
)

// Stores groups the key-value backed components of the API
type Stores struct {
	Idempotency    shared.IdempotencyStore
	TokenBlacklist auth.TokenBlacklist
	Distributed    bool
}

// NewStores backs the stores with Redis when client is non-nil and falls
// back to process-local implementations otherwise.
func NewStores(client redis.UniversalClient, logger *zap.Logger) *Stores {
	if client == nil {
		logger.Warn("Redis not configured, using in-memory idempotency and token revocation stores; " +
			"state is not shared between instances")
		return &Stores{
			Idempotency:    NewInMemoryIdempotencyStore(0),
			TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
		}
	}
	return &Stores{
		Idempotency:    NewRedisIdempotencyStore(client),
		TokenBlacklist: auth.NewRedisTokenBlacklist(client),
		Distributed:    true,
	}
}

// Close releases the stores; the Redis client itself is left open
func (s *Stores) Close() error {
	return s.Idempotency.Close()
}
