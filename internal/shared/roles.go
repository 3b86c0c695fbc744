package shared

import "fmt"

// Role is the enumerated privilege level of a principal.
type Role string

// Principal roles. RoleUser is the default and lowest-privilege role.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r.bit() != 0
}

func (r Role) bit() RoleSet {
	switch r {
	case RoleUser:
		return 1 << 0
	case RoleAdmin:
		return 1 << 1
	default:
		return 0
	}
}

// Set returns the singleton set holding r. Invalid roles yield the empty set.
func (r Role) Set() RoleSet {
	return r.bit()
}

// ParseRole converts raw into a Role, rejecting anything outside the enumeration.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// RoleSet is a set of enumerated roles.
type RoleSet uint8

// Predefined role sets used by route guards.
var (
	AdminOnly = RoleAdmin.Set()
	AnyRole   = RoleUser.Set().Union(RoleAdmin.Set())
)

// Union returns the roles present in either set.
func (s RoleSet) Union(other RoleSet) RoleSet {
	return s | other
}

// Contains reports whether role is a member of the set.
func (s RoleSet) Contains(role Role) bool {
	b := role.bit()
	return b != 0 && s&b == b
}

// Roles lists the members in enumeration order.
func (s RoleSet) Roles() []Role {
	var out []Role
	for _, r := range []Role{RoleUser, RoleAdmin} {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}
