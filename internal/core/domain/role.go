package domain

import (
	"sort"
	"strings"
)

// Role is a coarse-grained capability tag carried by an Identity.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
	// RoleUser is the baseline role granted by self-signup.
	RoleUser Role = "USER"
)

// Valid reports whether r is one of the known role tags.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient, RoleUser:
		return true
	}
	return false
}

// ParseRole converts a case-insensitive tag (with or without a "ROLE_" prefix) to a Role.
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	r := Role(s)
	return r, r.Valid()
}

// RoleSet is a deduplicated, sorted set of roles. The zero value is the empty set.
type RoleSet []Role

// NewRoleSet normalizes roles into a RoleSet, dropping duplicates and unknown tags.
func NewRoleSet(roles ...Role) RoleSet {
	seen := make(map[Role]struct{}, len(roles))
	out := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseRoleSet builds a RoleSet from raw tags. ok is false if any tag is unknown.
func ParseRoleSet(tags []string) (set RoleSet, ok bool) {
	roles := make([]Role, 0, len(tags))
	ok = true
	for _, t := range tags {
		r, valid := ParseRole(t)
		if !valid {
			ok = false
			continue
		}
		roles = append(roles, r)
	}
	return NewRoleSet(roles...), ok
}

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool {
	for _, have := range s {
		if have == r {
			return true
		}
	}
	return false
}

// Intersects reports whether s and other share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	for _, r := range other {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Empty reports whether the set holds no roles.
func (s RoleSet) Empty() bool { return len(s) == 0 }

// Strings returns the role tags as plain strings, in set order.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
