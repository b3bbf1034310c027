package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix     = "user:%d"
	identityKeyPrefix = "identity:%d"
)

const (
	// UserTTL bounds staleness of cached user rows.
	UserTTL = 5 * time.Minute
	// IdentityTTL bounds staleness of cached identity profiles. Identity
	// reads dominate the relationship endpoints, so these are cached
	// aggressively and invalidated on every mutation.
	IdentityTTL = 10 * time.Minute
)

// UserKey returns the cache key for a user row.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// IdentityKey returns the cache key for an identity profile.
func IdentityKey(identityID uint) string {
	return fmt.Sprintf(identityKeyPrefix, identityID)
}

// Invalidate removes a key, if caching is enabled.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser drops the cached user row.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateIdentity drops the cached identity profile.
func InvalidateIdentity(ctx context.Context, identityID uint) {
	Invalidate(ctx, IdentityKey(identityID))
}
