package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tireshop/internal/domain"
	applog "tireshop/internal/log"
	"tireshop/internal/repos"
	"tireshop/internal/services"
)

type OrderHandler struct {
	Order    *services.OrderService
	Orders   *repos.OrderRepo
	Gate     *services.AdminGate
	Validate *validator.Validate
}

// POST /api/order
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var req domain.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "error": "bad order body"})
	}
	if err := h.Validate.Struct(req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "error": "order must contain items and total"})
	}

	orderID, notifyErr, err := h.Order.Submit(req)
	if err != nil {
		applog.Error(c, "order.submit", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "error": "could not save order"})
	}

	resp := fiber.Map{"status": "ok", "order_number": orderID, "notified": notifyErr == nil}
	if notifyErr != nil {
		// order is durable; notification failure is a soft signal
		applog.Error(c, "order.notify", notifyErr, map[string]any{"order_id": orderID})
		resp["notify_error"] = "order saved, manager notification failed"
	}
	applog.Audit(c, "order.submit", map[string]any{"order_id": orderID, "payment_method": req.PaymentMethod})
	return c.JSON(resp)
}

// GET /api/orders?limit= — admin panel listing, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c, h.Gate); !ok {
		return forbidden(c)
	}
	orders, err := h.Orders.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "orders.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(orders)
}
