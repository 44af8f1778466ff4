package handlers

import (
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"

	"tireshop/internal/bot"
	applog "tireshop/internal/log"
)

type WebhookHandler struct {
	Dispatcher *bot.Dispatcher
}

// POST /telegram/webhook — acknowledges immediately and processes the
// update in the background. Always 200, so Telegram never retry-storms
// on transient internal errors.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		applog.Security(c, "webhook.bad_update", map[string]any{"error": err.Error()})
		return c.JSON(fiber.Map{"ok": true})
	}
	h.Dispatcher.Enqueue(update)
	return c.JSON(fiber.Map{"ok": true})
}
