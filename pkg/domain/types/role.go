package types

import (
	"sort"
	"strings"
)

// Role is a normalized (upper case, trimmed) role name.
type Role string

const (
	RoleJurist        Role = "JURIST"
	RoleSagsbehandler Role = "SAGSBEHANDLER"
	RolePartner       Role = "PARTNER"
	RoleAdmin         Role = "ADMIN"
)

// NewRole normalizes a raw role name. Every role entering the system goes
// through here so membership checks can compare exactly.
func NewRole(name string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(name)))
}

// UnmarshalText normalizes roles decoded from JSON and TOML.
func (r *Role) UnmarshalText(b []byte) error {
	*r = NewRole(string(b))
	return nil
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// RoleSet is a set of normalized roles
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet, normalizing every entry and dropping empty names.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		n := NewRole(string(r))
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the role
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAny reports whether the set contains at least one of roles
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Slice returns the roles sorted by name
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
