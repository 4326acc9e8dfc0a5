package middlewares

import (
	"dealerdesk-backend/database"
	"dealerdesk-backend/logger"
	"dealerdesk-backend/tenancy"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Tx opens a per-request DB transaction so every write a handler performs
// commits or rolls back as one unit. Order: run AFTER IsAuthenticatedHeader
// (public endpoints proceed without a TX) and AFTER Idempotency (so
// idempotency records aren't tied to the handler TX).
func Tx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		if _, aerr := tenancy.FromCtx(c); aerr != nil {
			// Public endpoints (e.g., /login) have no actor; just proceed.
			return c.Next()
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				logger.L().Error("tx commit failed", zap.Error(e))
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.FromCtx(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
