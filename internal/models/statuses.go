package models

import "strings"

type UserRole string

const (
	UserRoleAuthenticated UserRole = "AUTHENTICATED"
	UserRoleManager       UserRole = "MANAGER"
	UserRoleAdmin         UserRole = "ADMIN"
)

// AllRoles lists the fixed role set, lowest privilege first.
func AllRoles() []UserRole {
	return []UserRole{UserRoleAuthenticated, UserRoleManager, UserRoleAdmin}
}

// ParseRole upper-cases s and reports whether it names a known role.
func ParseRole(s string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.IsValid()
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAuthenticated, UserRoleManager, UserRoleAdmin:
		return true
	default:
		return false
	}
}

func (r UserRole) level() int {
	switch r {
	case UserRoleAuthenticated:
		return 1
	case UserRoleManager:
		return 2
	case UserRoleAdmin:
		return 3
	default:
		return 0
	}
}

// IsAtLeast reports whether r is at or above min in the privilege order.
func (r UserRole) IsAtLeast(min UserRole) bool {
	if !r.IsValid() || !min.IsValid() {
		return false
	}
	return r.level() >= min.level()
}
