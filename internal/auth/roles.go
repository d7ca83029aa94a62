package auth

import "strings"

// Role is a commissioning user role.
type Role string

const (
	// RoleViewer reads inventories, suggestions and templates.
	RoleViewer Role = "viewer"
	// RoleOperator accepts mappings and applies templates.
	RoleOperator Role = "operator"
	// RoleAdmin also deletes templates.
	RoleAdmin Role = "admin"
)

// NormalizeRole validates a role string, ignoring case.
func NormalizeRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleViewer, RoleOperator, RoleAdmin:
		return role, true
	default:
		return "", false
	}
}

// RoleAtLeast reports whether role satisfies required.
func RoleAtLeast(role Role, required Role) bool {
	return roleRank(role) >= roleRank(required)
}

func roleRank(role Role) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleOperator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}
