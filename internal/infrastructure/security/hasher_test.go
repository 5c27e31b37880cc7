package security

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, secret := range []string{"pw1", "password123", "ñandú-ü", strings.Repeat("x", 72)} {
		digest, err := h.Hash(secret)
		if err != nil {
			t.Fatalf("hash %q: %v", secret, err)
		}
		if digest == secret {
			t.Fatalf("digest equals plaintext")
		}
		if !h.Verify(secret, digest) {
			t.Fatalf("verify failed for %q", secret)
		}
		if h.Verify(secret+"!", digest) {
			t.Fatalf("verify accepted a different plaintext for %q", secret)
		}
	}
}

func TestBcryptHasher_FreshSalt(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct digests for the same plaintext")
	}
	if !h.Verify("same", a) || !h.Verify("same", b) {
		t.Fatalf("both digests should verify")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("pw", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest must not verify")
	}
	if h.Verify("pw", "") {
		t.Fatalf("empty digest must not verify")
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", 73))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBcryptHasher_VerifyRejectsOverlongSecret(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	stored := strings.Repeat("a", 72)
	digest, err := h.Hash(stored)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	// bcrypt only reads 72 bytes, so anything appended must not slip through.
	for _, attempt := range []string{stored + "-not-my-password", stored + "a"} {
		if h.Verify(attempt, digest) {
			t.Fatalf("verify accepted %d-byte secret against a 72-byte digest", len(attempt))
		}
	}
	if !h.Verify(stored, digest) {
		t.Fatalf("verify rejected the stored secret")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if h := NewBcryptHasher(bcrypt.MaxCost + 1); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
