package ports

import (
	"context"
	"time"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// SignupInput is the self-registration payload. It has no role field: self
// signup always grants the baseline role.
type SignupInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// ProvisionInput creates an identity with an explicit role grant. Only
// privileged callers (admins, demo seeding) reach it.
type ProvisionInput struct {
	SignupInput
	Roles domain.RoleSet
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Principal domain.Principal
	Token     string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

// AuthService verifies credentials and creates identities.
type AuthService interface {
	// Login fails with domain.ErrInvalidCredentials for unknown users and wrong
	// secrets alike, and with domain.ErrTooManyAttempts when throttled.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Signup fails with domain.ErrUsernameTaken or domain.ErrEmailTaken.
	Signup(ctx context.Context, in SignupInput) (*domain.Identity, error)
	Provision(ctx context.Context, actor domain.Principal, in ProvisionInput) (*domain.Identity, error)
	// Me reloads the caller's identity.
	Me(ctx context.Context, p domain.Principal) (*domain.Identity, error)
}
