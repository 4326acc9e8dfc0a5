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

type leadInput struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone"`
	Email  string `json:"email" validate:"omitempty,email"`
	Source string `json:"source"`
}

func CreateLead(c *fiber.Ctx) error {
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

	var in leadInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	lead := models.Lead{
		TenantID: tenantID,
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Source:   in.Source,
		Status:   models.LeadStatusNew,
	}
	if err := database.FromCtx(c).Create(&lead).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func GetLeads(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	q := database.FromCtx(c).Where("tenant_id = ?", tenantID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := q.Order("created_at DESC").
		Limit(utils.ParseIntDefault(c.Query("limit"), 100)).
		Find(&leads).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"leads": leads, "count": len(leads)})
}

type leadStatusInput struct {
	Status string `json:"status" validate:"required"`
}

func UpdateLeadStatus(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	var in leadStatusInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	switch in.Status {
	case models.LeadStatusNew, models.LeadStatusContacted:
	case models.LeadStatusConverted:
		return apperr.New(apperr.Validation, "use the convert endpoint to convert a lead")
	default:
		return apperr.Newf(apperr.Validation, "unknown lead status %q", in.Status)
	}

	res := database.FromCtx(c).Model(&models.Lead{}).
		Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
		Update("status", in.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "lead not found")
	}
	return c.JSON(fiber.Map{"message": "lead updated"})
}

// ConvertLead turns a lead into a customer. The customer keeps a
// back-reference to the lead and the lead records the created customer, so
// converting twice returns the existing customer instead of duplicating.
func ConvertLead(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	db := database.FromCtx(c)
	var customer models.Customer
	err = db.Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := tx.Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
			First(&lead).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "lead not found")
			}
			return err
		}

		if lead.Status == models.LeadStatusConverted && lead.CustomerID != nil {
			return tx.Where("id = ? AND tenant_id = ?", *lead.CustomerID, tenantID).
				First(&customer).Error
		}

		customer = models.Customer{
			TenantID: tenantID,
			Name:     lead.Name,
			Phone:    lead.Phone,
			Email:    lead.Email,
			LeadID:   &lead.Id,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		return tx.Model(&lead).Updates(map[string]any{
			"status":      models.LeadStatusConverted,
			"customer_id": customer.Id,
		}).Error
	})
	if err != nil {
		return err
	}
	return c.JSON(customer)
}
