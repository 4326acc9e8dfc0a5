package controllers

import (
	"errors"
	"strings"

	"dealerdesk-backend/database"
	"dealerdesk-backend/middlewares"
	"dealerdesk-backend/models"
	"dealerdesk-backend/services"
	"dealerdesk-backend/tenancy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type registerInput struct {
	DealerName      string `json:"dealer_name" validate:"required"`
	Plan            string `json:"plan"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Name            string `json:"name"`
}

// Register is the public dealer signup: provisions the tenant, its plan
// entitlements and the admin account, then hands back a session token.
func Register(c *fiber.Ctx) error {
	var in registerInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if in.Password != in.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "passwords do not match",
		})
	}

	tenant, err := services.CreateDealer(database.DB, services.DealerCreateInput{
		Name:          in.DealerName,
		Plan:          in.Plan,
		AdminEmail:    in.Email,
		AdminPassword: in.Password,
		AdminName:     in.Name,
	})
	if err != nil {
		return err
	}

	var admin models.User
	if err := database.DB.First(&admin, "tenant_id = ?", tenant.ID).Error; err != nil {
		return err
	}
	token, err := middlewares.GenerateJWT(admin.Id, tenant.ID, admin.Role, admin.Email)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":     token,
		"tenant_id": tenant.ID,
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(c *fiber.Ctx) error {
	var in loginInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var user models.User
	err := database.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(in.Email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
		}
		return err
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	// A suspended dealer cannot sign in; elevated operators carry no tenant.
	if !tenancy.HasRole(tenancy.Actor{Role: user.Role}, tenancy.RoleSuperadmin, tenancy.RoleSaasAdmin) {
		var tenant models.Tenant
		if err := database.DB.First(&tenant, "id = ?", user.TenantID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
		}
		if !tenant.Operable() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "account suspended"})
		}
	}

	token, err := middlewares.GenerateJWT(user.Id, user.TenantID, user.Role, user.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":     token,
		"tenant_id": user.TenantID,
		"role":      user.Role,
	})
}

// Logout is a no-op for stateless bearer tokens; clients drop the token.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the authenticated caller's identity and tenant context.
func Me(c *fiber.Ctx) error {
	actor, err := requestActor(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.FromCtx(c).First(&user, "id = ?", actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "account no longer exists"})
		}
		return err
	}
	return c.JSON(fiber.Map{
		"id":           user.Id,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"role":         user.Role,
		"tenant_id":    user.TenantID,
	})
}
