package tenancy

import (
	"errors"
	"strings"

	"dealerdesk-backend/apperr"

	"github.com/gofiber/fiber/v2"
)

// Roles understood by the authorization guard. superadmin and saas_admin are
// cross-tenant operators; everyone else is pinned to their own tenant.
const (
	RoleSuperadmin  = "superadmin"
	RoleSaasAdmin   = "saas_admin"
	RoleDealerAdmin = "dealer_admin"
	RoleStaff       = "staff"
)

var crossTenantRoles = map[string]bool{
	RoleSuperadmin: true,
	RoleSaasAdmin:  true,
}

// Actor is the caller identity carried explicitly through every layer.
// It is built once by the auth middleware from the validated claims bundle.
type Actor struct {
	UserID   string
	TenantID string
	Role     string
	Email    string
}

// Elevated reports whether the actor may operate across tenants.
func (a Actor) Elevated() bool {
	return crossTenantRoles[a.Role]
}

// Authorize allows an operation against targetTenant when the actor is an
// elevated operator or owns that tenant. It must run before any mutation;
// reads additionally filter by tenant at the storage layer.
func Authorize(a Actor, targetTenant string) error {
	if strings.TrimSpace(targetTenant) == "" {
		return apperr.New(apperr.Validation, "target tenant id is required")
	}
	if a.Elevated() || a.TenantID == targetTenant {
		return nil
	}
	return apperr.ErrCrossTenant
}

// HasRole reports whether the actor's role is in the allowed set.
func HasRole(a Actor, allowed ...string) bool {
	for _, r := range allowed {
		if a.Role == r {
			return true
		}
	}
	return false
}

const actorKey = "actor"

// Store stashes the actor in request locals (set by the auth middleware).
func Store(c *fiber.Ctx, a Actor) {
	c.Locals(actorKey, a)
}

// FromCtx returns the actor for the current request.
func FromCtx(c *fiber.Ctx) (Actor, error) {
	a, ok := c.Locals(actorKey).(Actor)
	if !ok || a.UserID == "" {
		return Actor{}, errors.New("auth context missing")
	}
	return a, nil
}
