// Package access implements the per-request access-control pipeline:
// tenant resolution, permission evaluation and plan quota enforcement.
package access

import "strings"

// Role is one value from the fixed, totally ordered role set.
type Role string

// Known roles, ordered low to high authority.
const (
	RoleViewer         Role = "VIEWER"
	RoleEditor         Role = "EDITOR"
	RoleMinistryLeader Role = "MINISTRY_LEADER"
	RoleAdmin          Role = "ADMIN"
	RolePastor         Role = "PASTOR"
	RoleSuperAdmin     Role = "SUPER_ADMIN"
)

// Roles returns the closed role set in ascending order of authority.
func Roles() []Role {
	return []Role{RoleViewer, RoleEditor, RoleMinistryLeader, RoleAdmin, RolePastor, RoleSuperAdmin}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleMinistryLeader, RoleAdmin, RolePastor, RoleSuperAdmin:
		return true
	}
	return false
}

// Resource identifies a protected resource kind.
type Resource string

// Closed resource set.
const (
	ResourcePersons  Resource = "PERSONS"
	ResourcePrograms Resource = "PROGRAMS"
	ResourceUsers    Resource = "USERS"
	ResourceLetters  Resource = "LETTERS"
	ResourceFinances Resource = "FINANCES"
)

// Resources returns the closed resource set.
func Resources() []Resource {
	return []Resource{ResourcePersons, ResourcePrograms, ResourceUsers, ResourceLetters, ResourceFinances}
}

// Valid reports whether the resource belongs to the closed set.
func (r Resource) Valid() bool {
	switch r {
	case ResourcePersons, ResourcePrograms, ResourceUsers, ResourceLetters, ResourceFinances:
		return true
	}
	return false
}

// Action identifies an operation on a resource.
type Action string

// Closed action set.
const (
	ActionRead   Action = "READ"
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Valid reports whether the action belongs to the closed set.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Plan is a subscription tier.
type Plan string

// Plan tiers.
const (
	PlanFree    Plan = "FREE"
	PlanBasic   Plan = "BASIC"
	PlanPremium Plan = "PREMIUM"
)

// Valid reports whether the plan belongs to the closed set.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPremium:
		return true
	}
	return false
}

// Principal is the verified identity attached to one request. It is
// constructed fresh per request by the resolver and immutable afterwards.
type Principal struct {
	ID       string
	TenantID string
	Role     Role

	// Superuser bypasses the permission engine entirely. It never
	// bypasses the tenant guard.
	Superuser bool

	// UseCustomPermissions makes CustomPermissions the exclusive source
	// of authority; the role matrix is not consulted while it is set.
	UseCustomPermissions bool
	CustomPermissions    []string
}

// PermissionKey renders the RESOURCE_ACTION form used by custom
// permission override lists, e.g. PROGRAMS_CREATE.
func PermissionKey(resource Resource, action Action) string {
	return string(resource) + "_" + string(action)
}

// normalizePermissions upper-cases and deduplicates an override list.
func normalizePermissions(perms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}
