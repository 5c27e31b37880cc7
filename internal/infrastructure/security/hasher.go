package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// maxSecretBytes is bcrypt's input limit. Longer secrets would be silently
// truncated, so Hash rejects them and Verify never matches them.
const maxSecretBytes = 72

// BcryptHasher hashes secrets with bcrypt. Every digest embeds a fresh salt,
// so hashing the same plaintext twice yields different strings.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost
// is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxSecretBytes {
		return "", fmt.Errorf("%w: secret longer than %d bytes", domain.ErrInvalidInput, maxSecretBytes)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: secret longer than 72 bytes", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. bcrypt compares in constant
// time; a malformed digest simply does not match.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if len(plaintext) > maxSecretBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
