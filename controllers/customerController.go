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

type customerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func CreateCustomer(c *fiber.Ctx) error {
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

	var in customerInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	customer := models.Customer{
		TenantID: tenantID,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
	}
	if err := database.FromCtx(c).Create(&customer).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	q := database.FromCtx(c).Where("tenant_id = ?", tenantID)
	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").
		Limit(utils.ParseIntDefault(c.Query("limit"), 100)).
		Find(&customers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"customers": customers, "count": len(customers)})
}

func GetCustomer(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	var customer models.Customer
	err = database.FromCtx(c).
		Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "customer not found")
		}
		return err
	}
	return c.JSON(customer)
}

type customerPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func UpdateCustomer(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	var in customerPatch
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&in)

	updates := utils.UpdatesFromPtrDTO(&in)
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"message": "nothing to update"})
	}

	res := database.FromCtx(c).Model(&models.Customer{}).
		Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "customer not found")
	}
	return c.JSON(fiber.Map{"message": "customer updated"})
}
