package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the logout deny-list. Revoked token ids live until the
// token's natural expiry, after which the key lapses on its own.
// Key format: revoked:<token_id>
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marks a token id as unusable for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id is on the deny-list.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(tokenID string) string {
	return "revoked:" + tokenID
}
