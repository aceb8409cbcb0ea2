package model

import "github.com/lexdesk/casework/pkg/domain/types"

// User is an entry of the user directory. The todo core only reads it.
type User struct {
	Username string
	Name     string
	Email    string
	Roles    []types.Role
}

// RoleSet returns the user's roles as a normalized set
func (u *User) RoleSet() types.RoleSet {
	return types.NewRoleSet(u.Roles...)
}

// HasRole reports whether the user holds the role
func (u *User) HasRole(role types.Role) bool {
	return u.RoleSet().Has(types.NewRole(string(role)))
}
