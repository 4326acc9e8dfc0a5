package controllers

import (
	"dealerdesk-backend/database"
	"dealerdesk-backend/middlewares"
	"dealerdesk-backend/models"
	"dealerdesk-backend/services"

	"github.com/gofiber/fiber/v2"
)

// SaaS-admin surface: dealer lifecycle, plans, and per-dealer entitlements.
// Routes mounting these handlers are gated by RequireRoles.

func GetDealers(c *fiber.Ctx) error {
	dealers, err := services.ListDealers(database.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"dealers": dealers, "count": len(dealers)})
}

func CreateDealer(c *fiber.Ctx) error {
	var in services.DealerCreateInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	tenant, err := services.CreateDealer(database.FromCtx(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tenant)
}

func UpdateDealer(c *fiber.Ctx) error {
	var in services.DealerUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := services.UpdateDealer(database.FromCtx(c), c.Params("id"), in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "dealer updated"})
}

func DeleteDealer(c *fiber.Ctx) error {
	if err := services.DeleteDealer(database.FromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "dealer deleted"})
}

// GetDealerFeatures lists a dealer's stored entitlement flags.
func GetDealerFeatures(c *fiber.Ctx) error {
	flags, err := services.ListEntitlements(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"features": flags})
}

type toggleFeatureInput struct {
	FeatureCode string `json:"feature_code" validate:"required"`
	IsEnabled   bool   `json:"is_enabled"`
}

// ToggleDealerFeature flips one entitlement for a dealer, outside its plan
// defaults.
func ToggleDealerFeature(c *fiber.Ctx) error {
	var in toggleFeatureInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if err := services.ToggleEntitlement(database.FromCtx(c), c.Params("id"), in.FeatureCode, in.IsEnabled); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "feature updated"})
}

func GetPlans(c *fiber.Ctx) error {
	plans, err := services.ListPlans(database.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func CreatePlan(c *fiber.Ctx) error {
	var in services.PlanInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if err := services.CreatePlan(database.FromCtx(c), in); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "plan created"})
}

func UpdatePlan(c *fiber.Ctx) error {
	var in services.PlanInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := services.UpdatePlan(database.FromCtx(c), c.Params("id"), in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "plan updated"})
}

func DeletePlan(c *fiber.Ctx) error {
	if err := services.DeactivatePlan(database.FromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "plan deactivated"})
}

// GetFeatureCatalog lists every known feature code with its display name
// and the static plan defaults, for the admin UI.
func GetFeatureCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"features":      models.FeatureCodes,
		"plan_features": models.PlanFeatures,
	})
}

// GetAdminOverview is the SaaS-level dashboard.
func GetAdminOverview(c *fiber.Ctx) error {
	stats, err := services.AdminOverview(database.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
