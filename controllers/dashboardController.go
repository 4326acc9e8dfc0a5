package controllers

import (
	"dealerdesk-backend/database"
	"dealerdesk-backend/services"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard serves the dealer's overview stats.
func GetDashboard(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	stats, err := services.Dashboard(database.FromCtx(c), actor, requestTenant(c, actor))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
