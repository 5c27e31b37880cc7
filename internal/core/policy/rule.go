// Package policy holds the access-control rules of the API and the single
// table binding every protected operation to exactly one rule.
//
// Evaluation is pure: Authorize reads only its arguments and has no side
// effects, so the same principal, rule and owner always yield the same
// Decision.
package policy

import (
	"fmt"
	"strings"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Rule is a declarative access rule. Build one with AnyOf or SelfOrRoles.
type Rule struct {
	roles domain.RoleSet
	// owner is the role under which a principal may act on a resource it owns.
	// Empty for AnyOf rules.
	owner domain.Role
}

// AnyOf allows principals holding at least one of roles.
func AnyOf(roles ...domain.Role) Rule {
	return Rule{roles: domain.NewRoleSet(roles...)}
}

// SelfOrRoles allows principals holding one of roles, or the resource owner
// when it acts under ownerRole. A patient editing their own record is
// SelfOrRoles(domain.RolePatient, domain.RoleAdmin).
func SelfOrRoles(ownerRole domain.Role, roles ...domain.Role) Rule {
	return Rule{roles: domain.NewRoleSet(roles...), owner: ownerRole}
}

// NeedsOwner reports whether the rule consults the resource owner ID.
func (r Rule) NeedsOwner() bool { return r.owner != "" }

// Roles returns the roles that are granted access outright.
func (r Rule) Roles() domain.RoleSet { return r.roles }

// OwnerRole returns the role required for self access, or "" for AnyOf rules.
func (r Rule) OwnerRole() domain.Role { return r.owner }

func (r Rule) String() string {
	roles := strings.Join(r.roles.Strings(), ",")
	if r.owner == "" {
		return fmt.Sprintf("AnyOf(%s)", roles)
	}
	return fmt.Sprintf("SelfOrRoles(%s; %s)", r.owner, roles)
}

// Authorize evaluates r for p. ownerID is the identity ID owning the target
// resource; values <= 0 mean the resource has no owner and only the role
// clause can grant access.
func Authorize(p domain.Principal, r Rule, ownerID int64) Decision {
	if p.IsZero() {
		return Deny
	}
	if p.Roles.Intersects(r.roles) {
		return Allow
	}
	if r.owner != "" && ownerID > 0 && p.ID == ownerID && p.Roles.Has(r.owner) {
		return Allow
	}
	return Deny
}
