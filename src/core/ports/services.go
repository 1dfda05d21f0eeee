package ports

import (
	"context"
	"time"

	"piadas/src/core/domain"
)

// ExternalService is the base interface for external service adapters.
type ExternalService interface {
	// Health checks if the external service is reachable.
	Health(ctx context.Context) error
}

// Cache is a key-value store with per-entry expiry.
// A read after an entry's TTL has elapsed must be a miss.
type Cache interface {
	ExternalService

	// Get returns the stored value and true on a hit, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, overwriting any previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash.
	Verify(hash, password string) bool
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(userID int64) (string, domain.TokenClaims, error)
	// Verify returns domain.ErrInvalidToken for any verification failure.
	Verify(token string) (domain.TokenClaims, error)
}

// RateLimitDecision is the outcome of one rate limit check.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the current window ends.
	ResetAt time.Time
}

// RateLimiter counts requests per client key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitDecision, error)
}
