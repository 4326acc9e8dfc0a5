package controllers

import (
	"strings"

	"dealerdesk-backend/tenancy"

	"github.com/gofiber/fiber/v2"
)

// requestActor returns the authenticated caller; routes behind the auth
// middleware always have one.
func requestActor(c *fiber.Ctx) (tenancy.Actor, error) {
	actor, err := tenancy.FromCtx(c)
	if err != nil {
		return tenancy.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
	}
	return actor, nil
}

// requestTenant resolves the tenant an operation targets: the caller's own
// tenant unless X-Tenant-ID names another one. Overrides from non-elevated
// actors are passed through so the authorization guard rejects them.
func requestTenant(c *fiber.Ctx, actor tenancy.Actor) string {
	if override := strings.TrimSpace(c.Get("X-Tenant-ID")); override != "" {
		return override
	}
	return actor.TenantID
}
