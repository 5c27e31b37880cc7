package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// timingSecret is hashed once at startup. Logins for unknown usernames verify
// against its digest so they cost the same as a wrong password.
const timingSecret = "clinic-api/timing-equalizer"

// fallbackTimingDigest is a well-formed cost-10 bcrypt digest used when the
// hasher cannot produce one at startup, so unknown usernames still pay the
// full verification cost.
const fallbackTimingDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements login, self-signup and privileged provisioning.
type AuthService struct {
	repo     ports.IdentityRepository
	hasher   ports.SecretHasher
	tokens   ports.TokenCodec
	throttle ports.LoginThrottle
	auditor  ports.Auditor
	tokenTTL time.Duration
	logger   zerolog.Logger

	dummyDigest string
	now         func() time.Time
}

// NewAuthService wires the authenticator. throttle and auditor may be nil.
func NewAuthService(
	repo ports.IdentityRepository,
	hasher ports.SecretHasher,
	tokens ports.TokenCodec,
	throttle ports.LoginThrottle,
	auditor ports.Auditor,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	if auditor == nil {
		auditor = nopAuditor{}
	}

	dummy, err := hasher.Hash(timingSecret)
	if err != nil || dummy == "" {
		logger.Warn().Err(err).Msg("could not prepare timing digest, using fallback")
		dummy = fallbackTimingDigest
	}

	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		throttle:    throttle,
		auditor:     auditor,
		tokenTTL:    tokenTTL,
		logger:      logger,
		dummyDigest: dummy,
		now:         time.Now,
	}
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// secrets return the same error after the same amount of hashing work.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	// 1. Throttle before touching the store. Redis outages fail open.
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, username)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login throttle unavailable, continuing")
		} else if !allowed {
			s.audit(ctx, domain.AuditLoginThrottled, 0, username, nil)
			return nil, domain.ErrTooManyAttempts
		}
	}

	// 2. Look up and verify. Both miss paths converge on one error.
	identity, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.dummyDigest)
		s.audit(ctx, domain.AuditLoginFailed, 0, username, nil)
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, identity.SecretHash) {
		s.audit(ctx, domain.AuditLoginFailed, identity.ID, username, nil)
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Issue a token for the identity's current roles.
	principal := identity.Principal()
	token, expiresAt, err := s.tokens.Issue(principal, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	s.audit(ctx, domain.AuditLoginSucceeded, identity.ID, username, nil)
	s.logger.Info().Int64("identity_id", identity.ID).Str("username", username).Msg("login succeeded")

	return &ports.LoginResult{
		Principal: principal,
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}

// Signup creates an identity holding only the baseline USER role.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Identity, error) {
	created, err := s.create(ctx, in, domain.NewRoleSet(domain.RoleUser))
	if err != nil {
		return nil, err
	}
	s.audit(ctx, domain.AuditSignup, created.ID, created.Username, nil)
	s.logger.Info().Int64("identity_id", created.ID).Str("username", created.Username).Msg("identity registered")
	return created, nil
}

// Provision creates an identity with an explicit role set on behalf of actor.
func (s *AuthService) Provision(ctx context.Context, actor domain.Principal, in ports.ProvisionInput) (*domain.Identity, error) {
	for _, r := range in.Roles {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, r)
		}
	}
	roles := domain.NewRoleSet(in.Roles...)
	if roles.Empty() {
		return nil, fmt.Errorf("%w: at least one role is required", domain.ErrInvalidInput)
	}

	created, err := s.create(ctx, in.SignupInput, roles)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, domain.AuditProvision, actor.ID, created.Username, map[string]string{
		"roles": strings.Join(roles.Strings(), ","),
	})
	s.logger.Info().
		Int64("identity_id", created.ID).
		Str("username", created.Username).
		Strs("roles", roles.Strings()).
		Int64("actor_id", actor.ID).
		Msg("identity provisioned")
	return created, nil
}

// Me reloads the identity behind p.
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (*domain.Identity, error) {
	if p.ID <= 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, p.ID)
}

// create checks uniqueness, hashes the secret and persists the identity. The
// existence checks give precise errors for the common case; the store's
// unique indexes settle concurrent races.
func (s *AuthService) create(ctx context.Context, in ports.SignupInput, roles domain.RoleSet) (*domain.Identity, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", domain.ErrInvalidInput)
	}

	taken, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.Identity{
		Username:   in.Username,
		Email:      in.Email,
		SecretHash: digest,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		Roles:      roles,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *AuthService) audit(ctx context.Context, action domain.AuditAction, actorID int64, subject string, detail map[string]string) {
	s.auditor.Record(domain.AuditEvent{
		Action:    action,
		ActorID:   actorID,
		Subject:   subject,
		Detail:    detail,
		RequestID: domain.RequestIDFrom(ctx),
		Timestamp: s.now().UTC(),
	})
}

type nopAuditor struct{}

func (nopAuditor) Record(domain.AuditEvent) {}
