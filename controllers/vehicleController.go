package controllers

import (
	"errors"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/database"
	"dealerdesk-backend/middlewares"
	"dealerdesk-backend/models"
	"dealerdesk-backend/services"
	"dealerdesk-backend/tenancy"
	"dealerdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type vehicleInput struct {
	CustomerID     string `json:"customer_id" validate:"required"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	VIN            string `json:"vin"`
	ChassisNo      string `json:"chassis_no"`
	RegistrationNo string `json:"registration_no"`
}

func CreateVehicle(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}
	if err := services.RequireTenant(database.FromCtx(c), tenantID); err != nil {
		return err
	}

	var in vehicleInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	// Owner must exist within the same tenant.
	var owner models.Customer
	err = database.FromCtx(c).
		Where("id = ? AND tenant_id = ?", in.CustomerID, tenantID).
		First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "customer not found")
		}
		return err
	}

	vehicle := models.Vehicle{
		TenantID:       tenantID,
		CustomerID:     owner.Id,
		Make:           in.Make,
		Model:          in.Model,
		Year:           in.Year,
		VIN:            in.VIN,
		ChassisNo:      in.ChassisNo,
		RegistrationNo: in.RegistrationNo,
		Active:         true,
	}
	if err := database.FromCtx(c).Create(&vehicle).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

func GetVehicles(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	q := database.FromCtx(c).Where("tenant_id = ?", tenantID)
	if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}

	var vehicles []models.Vehicle
	if err := q.Order("created_at DESC").
		Limit(utils.ParseIntDefault(c.Query("limit"), 100)).
		Find(&vehicles).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"vehicles": vehicles, "count": len(vehicles)})
}
