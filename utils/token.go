package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist remembers logged-out tokens until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Blacklist is the process-wide store consulted by the auth middleware.
var Blacklist TokenBlacklist = NewMemoryBlacklist()

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryBlacklist keeps revocations in process. Fine for a single API instance.
func NewMemoryBlacklist() TokenBlacklist {
	return &memoryBlacklist{revoked: make(map[string]time.Time)}
}

func (b *memoryBlacklist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	for id, expiry := range b.revoked {
		if now.After(expiry) {
			delete(b.revoked, id)
		}
	}
	b.revoked[tokenID] = until
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, exists := b.revoked[tokenID]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(b.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

const revokedKeyPrefix = "tablemate:revoked:"

type redisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist shares revocations between API instances.
func NewRedisBlacklist(client *redis.Client) TokenBlacklist {
	return &redisBlacklist{client: client}
}

func (b *redisBlacklist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return n > 0, nil
}
