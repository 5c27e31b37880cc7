package domain

import "context"

// Principal is the caller identity decoded from a validated token. It lives for
// one request and is never persisted.
type Principal struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Roles    RoleSet `json:"roles"`
}

// IsZero reports whether p carries no identity.
func (p Principal) IsZero() bool {
	return p.ID == 0 && p.Username == "" && len(p.Roles) == 0
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
