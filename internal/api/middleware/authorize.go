package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/api/metrics"
	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/policy"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// OwnerFunc extracts the identity ID owning the target resource. It must not
// touch the store: authorization runs before any resource lookup.
type OwnerFunc func(c echo.Context) int64

// ParamOwner reads the owner ID from a path parameter. Unparseable values
// yield 0, which only the role clause of a rule can satisfy.
func ParamOwner(name string) OwnerFunc {
	return func(c echo.Context) int64 {
		id, err := strconv.ParseInt(c.Param(name), 10, 64)
		if err != nil || id <= 0 {
			return 0
		}
		return id
	}
}

// Authorizer is the single choke point that evaluates the policy table.
type Authorizer struct {
	auditor ports.Auditor
}

// NewAuthorizer returns an Authorizer that reports denials to auditor.
func NewAuthorizer(auditor ports.Auditor) *Authorizer {
	return &Authorizer{auditor: auditor}
}

// Require enforces the rule bound to op. Denials always render the same 403,
// whether or not the target resource exists.
func (a *Authorizer) Require(op policy.Operation, owner OwnerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			p, ok := domain.PrincipalFrom(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			var ownerID int64
			if rule, found := policy.Lookup(op); found && rule.NeedsOwner() && owner != nil {
				ownerID = owner(c)
			}

			decision := policy.Check(p, op, ownerID)
			metrics.AuthzDecisionsTotal.WithLabelValues(string(op), decision.String()).Inc()

			if decision == policy.Deny {
				if a.auditor != nil {
					a.auditor.Record(domain.AuditEvent{
						Action:    domain.AuditAccessDenied,
						ActorID:   p.ID,
						Subject:   string(op),
						Detail:    map[string]string{"path": c.Request().URL.Path, "method": c.Request().Method},
						RequestID: domain.RequestIDFrom(ctx),
					})
				}
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
