package ports

import (
	"context"
	"time"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// SecretHasher is a salted one-way hash over plaintext secrets.
type SecretHasher interface {
	Hash(plaintext string) (string, error)
	// Verify compares in constant time and never errors; a malformed digest is a mismatch.
	Verify(plaintext, digest string) bool
}

// TokenCodec issues and validates signed, time-bounded principal assertions.
type TokenCodec interface {
	Issue(p domain.Principal, ttl time.Duration) (token string, expiresAt time.Time, err error)
	// Validate returns domain.ErrTokenExpired or domain.ErrTokenMalformed on failure.
	Validate(token string) (domain.Principal, error)
}

// LoginThrottle bounds credential guessing per username.
type LoginThrottle interface {
	// Allow records an attempt and reports whether it is within the window budget.
	Allow(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}
