package middlewares

import (
	"errors"

	"dealerdesk-backend/apperr"
	"dealerdesk-backend/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Cross-tenant and forbidden responses never reveal whether the target
// resource exists.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Typed application errors
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := fiber.StatusInternalServerError
		switch ae.Kind {
		case apperr.Validation:
			status = fiber.StatusUnprocessableEntity
		case apperr.NotFound:
			status = fiber.StatusNotFound
		case apperr.CrossTenant, apperr.Forbidden:
			status = fiber.StatusForbidden
		case apperr.InvalidPlan:
			status = fiber.StatusBadRequest
		case apperr.Conflict:
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"message": ae.Message})
	}

	// 2) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 3) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	logger.L().Error("internal error",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
