package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// claims is the JWT payload. The identity ID travels in the standard "sub" claim.
type claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTCodec issues and validates HS256 tokens.
//
// Tokens are stateless: no revocation list is consulted, so a leaked token
// stays valid until it expires. Keep JWT_TTL short.
type JWTCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// CodecOption customises a JWTCodec.
type CodecOption func(*JWTCodec)

// WithClock overrides the time source used for iat/exp and validation.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec returns a codec signing with secret. When issuer is non-empty it
// is stamped on issued tokens and required on validated ones.
func NewJWTCodec(secret, issuer string, opts ...CodecOption) *JWTCodec {
	c := &JWTCodec{secret: []byte(secret), issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs a token for p that expires ttl from now.
func (c *JWTCodec) Issue(p domain.Principal, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("issue token: non-positive ttl %s", ttl)
	}
	if p.ID <= 0 || p.Username == "" || p.Roles.Empty() {
		return "", time.Time{}, fmt.Errorf("issue token: incomplete principal")
	}

	// NumericDate has second precision. exp is rounded up so the token never
	// lives shorter than ttl, and the reported expiry matches the claim.
	now := c.now().UTC()
	expiresAt := now.Add(ttl)
	if rounded := expiresAt.Truncate(time.Second); rounded.Before(expiresAt) {
		expiresAt = rounded.Add(time.Second)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: p.Username,
		Roles:    p.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now.Truncate(time.Second)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, issuer and expiry, then decodes the
// principal. It returns domain.ErrTokenExpired once now reaches exp and
// domain.ErrTokenMalformed for every other failure.
func (c *JWTCodec) Validate(token string) (domain.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var cl claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.ErrTokenExpired
		}
		return domain.Principal{}, domain.ErrTokenMalformed
	}

	id, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil || id <= 0 || cl.Username == "" {
		return domain.Principal{}, domain.ErrTokenMalformed
	}
	roles, ok := domain.ParseRoleSet(cl.Roles)
	if !ok || roles.Empty() {
		return domain.Principal{}, domain.ErrTokenMalformed
	}

	return domain.Principal{ID: id, Username: cl.Username, Roles: roles}, nil
}
