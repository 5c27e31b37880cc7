package ports

import (
	"context"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// IdentityRepository is the credential store. Username and email uniqueness is
// enforced by the store itself: Create must fail with domain.ErrUsernameTaken or
// domain.ErrEmailTaken when a concurrent writer won the race.
type IdentityRepository interface {
	// Create assigns a fresh ID and persists the identity.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
