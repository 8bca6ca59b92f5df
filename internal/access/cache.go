package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot is the cached projection of a tenant's validity. Absence of a
// snapshot means "must re-fetch", never "invalid".
type Snapshot struct {
	IsActive  bool      `json:"is_active"`
	Name      string    `json:"name"`
	Plan      Plan      `json:"plan"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store is the narrow cache contract consumed by the guard. Get reports
// a miss via the second return value; Set population is idempotent and
// last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ValidityKey returns the per-tenant cache key. The namespace prefix
// keeps snapshots from colliding with other cached values.
func ValidityKey(tenantID string) string {
	return "tenant-validity:" + tenantID
}

// RedisStore implements Store over a redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get fetches a raw value, mapping redis.Nil to a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("access: cache get: %w", err)
	}
	return payload, true, nil
}

// Set stores a raw value with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("access: cache set: %w", err)
	}
	return nil
}

// Del removes a single key.
func (s *RedisStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("access: cache del: %w", err)
	}
	return nil
}
