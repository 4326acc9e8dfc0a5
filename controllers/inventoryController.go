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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type inventoryInput struct {
	Name              string          `json:"name" validate:"required"`
	SKU               string          `json:"sku"`
	StockQuantity     int             `json:"stock_quantity" validate:"gte=0"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ImageURL          string          `json:"image_url"`
}

func CreateInventoryItem(c *fiber.Ctx) error {
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

	var in inventoryInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	item := models.InventoryItem{
		TenantID:      tenantID,
		Name:          in.Name,
		SKU:           in.SKU,
		StockQuantity: in.StockQuantity,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
	}
	if in.LowStockThreshold > 0 {
		item.LowStockThreshold = in.LowStockThreshold
	}
	if err := database.FromCtx(c).Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetInventory(c *fiber.Ctx) error {
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
		q = q.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if c.QueryBool("low_stock") {
		q = q.Where("stock_quantity < low_stock_threshold")
	}

	var items []models.InventoryItem
	if err := q.Order("name").
		Limit(utils.ParseIntDefault(c.Query("limit"), 200)).
		Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

type inventoryPatch struct {
	Name              *string          `json:"name"`
	SKU               *string          `json:"sku"`
	StockQuantity     *int             `json:"stock_quantity"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	ImageURL          *string          `json:"image_url"`
}

func UpdateInventoryItem(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	var in inventoryPatch
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&in)
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return apperr.New(apperr.Validation, "stock quantity must not be negative")
	}

	updates := utils.UpdatesFromPtrDTO(&in)
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"message": "nothing to update"})
	}

	res := database.FromCtx(c).Model(&models.InventoryItem{}).
		Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "product not found")
	}
	return c.JSON(fiber.Map{"message": "product updated"})
}

func DeleteInventoryItem(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	res := database.FromCtx(c).
		Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "product not found")
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

func GetInventoryItem(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}
	tenantID := requestTenant(c, actor)
	if err := tenancy.Authorize(actor, tenantID); err != nil {
		return err
	}

	var item models.InventoryItem
	err = database.FromCtx(c).
		Where("id = ? AND tenant_id = ?", c.Params("id"), tenantID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "product not found")
		}
		return err
	}
	return c.JSON(item)
}
