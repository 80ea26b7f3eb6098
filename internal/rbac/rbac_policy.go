package rbac

import "go-leave/internal/domain"

// Permission is a resource:action pair granted to a role.
type Permission struct {
	Resource string
	Action   string
}

var employeePermissions = []Permission{
	{"leave", "create"},
	{"leave", "read_own"},
	{"leave", "cancel"},
	{"dashboard", "employee"},
	{"notification", "read"},
	{"notification", "update"},
}

var managerPermissions = []Permission{
	{"leave", "read_all"},
	{"leave", "approve"},
	{"leave", "reject"},
	{"dashboard", "manager"},
}

// DefaultPolicy returns the p rules and the g (inheritance) rules.
func DefaultPolicy() (policies [][]string, groupings [][]string) {
	for _, p := range employeePermissions {
		policies = append(policies, []string{string(domain.RoleEmployee), p.Resource, p.Action})
	}
	for _, p := range managerPermissions {
		policies = append(policies, []string{string(domain.RoleManager), p.Resource, p.Action})
	}
	groupings = [][]string{{string(domain.RoleManager), string(domain.RoleEmployee)}}
	return policies, groupings
}
