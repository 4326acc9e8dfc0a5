package middlewares

import (
	"dealerdesk-backend/apperr"
	"dealerdesk-backend/database"
	"dealerdesk-backend/services"
	"dealerdesk-backend/tenancy"

	"github.com/gofiber/fiber/v2"
)

// RequireFeature gates a route group on a tenant entitlement. The check
// runs against the caller's own tenant; a suspended tenant fails it
// regardless of stored flags.
func RequireFeature(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := tenancy.FromCtx(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}
		// Cross-tenant operators bypass entitlement gating.
		if actor.Elevated() {
			return c.Next()
		}

		enabled, err := services.IsEntitled(database.FromCtx(c), actor.TenantID, code)
		if err != nil {
			return err
		}
		if !enabled {
			return apperr.Newf(apperr.Forbidden, "feature %s not enabled for this plan", code)
		}
		return c.Next()
	}
}
