package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tireshop/internal/log"
	"tireshop/internal/services"
)

// requireAdmin checks the X-Telegram-Init-Data header against the admin
// gate. Privileged API calls (admin catalog, order list, soft delete,
// uploads) must pass it.
func requireAdmin(c *fiber.Ctx, gate *services.AdminGate) (int64, bool) {
	userID, ok := gate.VerifyInitData(c.Get("X-Telegram-Init-Data"))
	if !ok || !gate.IsAdmin(userID) {
		applog.Security(c, "authz.admin.denied", map[string]any{"user_id": userID})
		return 0, false
	}
	return userID, true
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
}
