package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tireshop/internal/config"
)

type MetaHandler struct {
	Shop config.ShopInfo
}

// GET /api/payment-config — static shop metadata for the WebApp checkout.
func (h *MetaHandler) PaymentConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"address":         h.Shop.Address,
		"phone":           h.Shop.Phone,
		"hours":           h.Shop.Hours,
		"payment_methods": strings.Split(h.Shop.PaymentMethods, ","),
	})
}

// GET /api/health
func (h *MetaHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
