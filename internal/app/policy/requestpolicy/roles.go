// Package requestpolicy decides who may see, create, and act on service
// requests. It performs no I/O: callers build a Viewer from the session,
// ask the policy what to load or whether to proceed, and apply the result.
package requestpolicy

import "github.com/dalemusser/ksef/internal/domain/models"

// capability is one row of the role table.
type capability struct {
	privileged  bool
	canCreate   bool
	canClaim    bool
	displayName string
}

// roleTable is the single source of truth for role capabilities.
// Roles missing from the table have no capabilities.
var roleTable = map[string]capability{
	models.RoleCommunityMember: {canCreate: true, displayName: "Community Member"},
	models.RoleVolunteer:       {privileged: true, canClaim: true, displayName: "Youth Volunteer"},
	models.RoleNGO:             {privileged: true, displayName: "NGO/Welfare Group"},
	models.RoleAdmin:           {privileged: true, displayName: "Local Administrator"},
}

// roleOrder is the order roles are offered on the registration form.
var roleOrder = []string{
	models.RoleCommunityMember,
	models.RoleVolunteer,
	models.RoleNGO,
	models.RoleAdmin,
}

// IsPrivileged reports whether role sees every request.
func IsPrivileged(role string) bool { return roleTable[role].privileged }

// CanCreateRole reports whether role may post new requests.
func CanCreateRole(role string) bool { return roleTable[role].canCreate }

// CanClaimRole reports whether role may volunteer for open requests.
func CanClaimRole(role string) bool { return roleTable[role].canClaim }

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	_, ok := roleTable[role]
	return ok
}

// DisplayName returns the human label for role, or role itself when unknown.
func DisplayName(role string) string {
	if c, ok := roleTable[role]; ok {
		return c.displayName
	}
	return role
}

// RoleOption is a value/label pair for role pickers.
type RoleOption struct {
	Value string
	Label string
}

// RoleOptions lists every known role in display order.
func RoleOptions() []RoleOption {
	out := make([]RoleOption, 0, len(roleOrder))
	for _, r := range roleOrder {
		out = append(out, RoleOption{Value: r, Label: DisplayName(r)})
	}
	return out
}
