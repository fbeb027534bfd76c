package redis

import (
	"context"
	"errors"
	"time"
)

const denylistPrefix = "denylist:jti:"

// TokenDenylist tracks revoked refresh token IDs until their natural expiry.
// Stateless JWTs cannot be recalled, so logout records the jti here and the
// refresh path checks it before issuing new tokens.
type TokenDenylist struct {
	client *Client
}

// NewTokenDenylist creates a denylist backed by the given Redis client.
func NewTokenDenylist(client *Client) (*TokenDenylist, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &TokenDenylist{client: client}, nil
}

// Revoke marks a token ID as revoked. The TTL should cover the remaining
// token lifetime; entries expire with the token so the set stays bounded.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("jti is required")
	}
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, "1", ttl)
}

// IsRevoked reports whether a token ID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := d.client.Get(ctx, denylistPrefix+jti)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
