package middlewares

import (
	"dealerdesk-backend/apperr"
	"dealerdesk-backend/tenancy"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles declares the permitted role set for a route group as data,
// checked here instead of inline conditionals per handler. Failing the
// check is Forbidden, distinct from a cross-tenant denial.
func RequireRoles(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := tenancy.FromCtx(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}
		if !tenancy.HasRole(actor, allowed...) {
			return apperr.New(apperr.Forbidden, "insufficient role")
		}
		return c.Next()
	}
}
