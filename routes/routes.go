package routes

import (
	"github.com/gofiber/fiber/v2"

	"dealerdesk-backend/controllers"
	"dealerdesk-backend/middlewares"
	"dealerdesk-backend/tenancy"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to the request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.Tx())

	protected.Get("/me", controllers.Me)
	protected.Get("/dashboard", controllers.GetDashboard)

	// CRM
	crm := protected.Group("", middlewares.RequireFeature("crm_basic"))
	crm.Post("/customer", controllers.CreateCustomer)
	crm.Get("/customers", controllers.GetCustomers)
	crm.Get("/customer/:id", controllers.GetCustomer)
	crm.Put("/customer/:id", controllers.UpdateCustomer)
	crm.Post("/vehicle", controllers.CreateVehicle)
	crm.Get("/vehicles", controllers.GetVehicles)
	crm.Post("/lead", controllers.CreateLead)
	crm.Get("/leads", controllers.GetLeads)
	crm.Put("/lead/:id/status", controllers.UpdateLeadStatus)
	crm.Post("/lead/:id/convert", controllers.ConvertLead)

	// Inventory
	inventory := protected.Group("", middlewares.RequireFeature("inventory_basic"))
	inventory.Post("/product", controllers.CreateInventoryItem)
	inventory.Get("/products", controllers.GetInventory)
	inventory.Get("/product/:id", controllers.GetInventoryItem)
	inventory.Put("/product/:id", controllers.UpdateInventoryItem)
	inventory.Delete("/product/:id", controllers.DeleteInventoryItem)

	// POS invoicing
	pos := protected.Group("", middlewares.RequireFeature("pos_system"))
	pos.Post("/invoice", controllers.IssueInvoice)
	pos.Get("/invoices", controllers.GetInvoices)
	pos.Get("/invoice/:id", controllers.GetInvoice)
	pos.Delete("/invoice/:id", controllers.DeleteInvoice)

	// SaaS administration (cross-tenant operators only)
	saas := protected.Group("/saas",
		middlewares.RequireRoles(tenancy.RoleSuperadmin, tenancy.RoleSaasAdmin))
	saas.Get("/overview", controllers.GetAdminOverview)
	saas.Get("/dealers", controllers.GetDealers)
	saas.Post("/dealer", controllers.CreateDealer)
	saas.Put("/dealer/:id", controllers.UpdateDealer)
	saas.Delete("/dealer/:id", controllers.DeleteDealer)
	saas.Get("/dealer/:id/features", controllers.GetDealerFeatures)
	saas.Put("/dealer/:id/features", controllers.ToggleDealerFeature)
	saas.Get("/features", controllers.GetFeatureCatalog)
	saas.Get("/plans", controllers.GetPlans)
	saas.Post("/plan", controllers.CreatePlan)
	saas.Put("/plan/:id", controllers.UpdatePlan)
	saas.Delete("/plan/:id", controllers.DeletePlan)
}
