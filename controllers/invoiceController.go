package controllers

import (
	"dealerdesk-backend/database"
	"dealerdesk-backend/services"
	"dealerdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// IssueInvoice runs the POS issuance workflow for the caller's tenant.
func IssueInvoice(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}

	var in services.IssueInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	summary, err := services.IssueInvoice(database.FromCtx(c), actor, requestTenant(c, actor), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

func GetInvoice(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}

	detail, err := services.GetInvoice(database.FromCtx(c), actor, requestTenant(c, actor), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func GetInvoices(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}

	start, end, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return err
	}
	filter := services.ListFilter{
		Limit: utils.ParseIntDefault(c.Query("limit"), 0),
		Start: start,
		End:   end,
	}

	list, err := services.ListInvoices(database.FromCtx(c), actor, requestTenant(c, actor), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoices": list, "count": len(list)})
}

func DeleteInvoice(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}

	if err := services.DeleteInvoice(database.FromCtx(c), actor, requestTenant(c, actor), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "invoice deleted"})
}
