package bot

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	applog "tireshop/internal/log"
	"tireshop/internal/repos"
	"tireshop/internal/services"
	"tireshop/internal/validate"
)

// sender is the slice of tgbotapi.BotAPI the handlers need; tests plug in
// a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// FileFetcher downloads a Telegram file by id (photos sent during the
// image step).
type FileFetcher interface {
	Fetch(fileID string) (io.ReadCloser, error)
}

type apiFileFetcher struct{ api *tgbotapi.BotAPI }

func (f apiFileFetcher) Fetch(fileID string) (io.ReadCloser, error) {
	url, err := f.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file download: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

type Bot struct {
	api        sender
	files      FileFetcher
	sessions   SessionStore
	products   *repos.ProductRepo
	gate       *services.AdminGate
	uploads    *services.UploadService
	webAppURL  string
	ordersChat string
}

func New(api *tgbotapi.BotAPI, sessions SessionStore, products *repos.ProductRepo,
	gate *services.AdminGate, uploads *services.UploadService, webAppURL, ordersChat string) *Bot {
	return &Bot{
		api:        api,
		files:      apiFileFetcher{api: api},
		sessions:   sessions,
		products:   products,
		gate:       gate,
		uploads:    uploads,
		webAppURL:  webAppURL,
		ordersChat: ordersChat,
	}
}

// Notify sends an order summary to the managers' chat. Implements
// services.Notifier.
func (b *Bot) Notify(text string) error {
	var msg tgbotapi.MessageConfig
	if strings.HasPrefix(b.ordersChat, "@") {
		msg = tgbotapi.NewMessageToChannel(b.ordersChat, text)
	} else {
		chatID, err := strconv.ParseInt(b.ordersChat, 10, 64)
		if err != nil {
			return fmt.Errorf("bad orders chat %q: %w", b.ordersChat, err)
		}
		msg = tgbotapi.NewMessage(chatID, text)
	}
	_, err := b.api.Send(msg)
	return err
}

// HandleUpdate routes one inbound update. Errors never escape: every
// failure turns into a user-facing reply or a log line.
func (b *Bot) HandleUpdate(u tgbotapi.Update) {
	if u.CallbackQuery != nil {
		b.handleCallback(u.CallbackQuery)
		return
	}
	if u.Message == nil || u.Message.From == nil {
		return
	}
	m := u.Message

	if m.IsCommand() {
		b.handleCommand(m)
		return
	}
	if sess, ok := b.sessions.Get(m.From.ID); ok {
		b.handleStep(m, sess)
		return
	}
	// no session, no command: nothing to do with free text
}

func (b *Bot) handleCommand(m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		b.cmdStart(m)
	case "whoami":
		b.reply(m.Chat.ID, fmt.Sprintf("Ваш user_id: %d", m.From.ID))
	case "setadmin":
		b.cmdSetAdmin(m)
	case "list":
		b.cmdList(m)
	case "add":
		b.cmdAdd(m)
	case "cancel":
		b.cmdCancel(m)
	}
}

func (b *Bot) cmdStart(m *tgbotapi.Message) {
	if m.Chat.IsPrivate() {
		msg := tgbotapi.NewMessage(m.Chat.ID, "Добро пожаловать в шинный магазин! Открывайте витрину и оформляйте заказ:")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🛞 Открыть магазин", b.webAppURL),
			),
		)
		b.send(msg)
		return
	}
	// groups get a plain link, no launch control
	b.reply(m.Chat.ID, "Витрина магазина: "+b.webAppURL)
}

func (b *Bot) cmdSetAdmin(m *tgbotapi.Message) {
	if err := b.gate.Register(m.From.ID, m.From.UserName); err != nil {
		applog.EventError("bot.setadmin", err, map[string]any{"user_id": m.From.ID})
		b.reply(m.Chat.ID, "Не получилось сохранить. Попробуйте ещё раз.")
		return
	}
	b.reply(m.Chat.ID, fmt.Sprintf("Готово. Добавлен админ: %d", m.From.ID))
}

func (b *Bot) cmdList(m *tgbotapi.Message) {
	if !b.gate.IsAdmin(m.From.ID) {
		b.reply(m.Chat.ID, "Нет доступа.")
		return
	}
	prods, err := b.products.List(true)
	if err != nil {
		applog.EventError("bot.list", err, nil)
		b.reply(m.Chat.ID, "Не удалось загрузить товары.")
		return
	}
	if len(prods) == 0 {
		b.reply(m.Chat.ID, "Товаров нет. Добавьте через /add")
		return
	}
	if len(prods) > 50 {
		prods = prods[:50]
	}

	lines := []string{"Список товаров:"}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range prods {
		st := "✅"
		if !p.Active {
			st = "⛔"
		}
		lines = append(lines, fmt.Sprintf("%s #%d — %s — %d ₽", st, p.ID, p.Name, p.Price))

		label := fmt.Sprintf("⛔ Скрыть #%d", p.ID)
		data := fmt.Sprintf("toggle:%d:0", p.ID)
		if !p.Active {
			label = fmt.Sprintf("✅ Показать #%d", p.ID)
			data = fmt.Sprintf("toggle:%d:1", p.ID)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}

	msg := tgbotapi.NewMessage(m.Chat.ID, strings.Join(lines, "\n"))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil {
		return
	}
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			applog.EventError("bot.callback_ack", err, nil)
		}
	}()

	switch {
	case strings.HasPrefix(cq.Data, "toggle:"):
		b.callbackToggle(cq)
	case strings.HasPrefix(cq.Data, "glyph:"):
		b.callbackGlyph(cq)
	case cq.Data == "confirm:yes" || cq.Data == "confirm:no":
		b.callbackConfirm(cq)
	}
}

func (b *Bot) callbackToggle(cq *tgbotapi.CallbackQuery) {
	if !b.gate.IsAdmin(cq.From.ID) {
		b.reply(cq.Message.Chat.ID, "Нет доступа.")
		return
	}
	parts := strings.Split(cq.Data, ":")
	if len(parts) != 3 {
		return
	}
	id, ok := validate.ID(parts[1])
	if !ok {
		return
	}
	active := parts[2] == "1"
	if err := b.products.SetActive(id, active); err != nil {
		applog.EventError("bot.toggle", err, map[string]any{"product_id": id})
		b.reply(cq.Message.Chat.ID, "Не удалось обновить товар.")
		return
	}
	if active {
		b.reply(cq.Message.Chat.ID, fmt.Sprintf("✅ Товар #%d снова в витрине", id))
	} else {
		b.reply(cq.Message.Chat.ID, fmt.Sprintf("🗑️ Скрыт товар #%d", id))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		applog.EventError("bot.send", err, nil)
	}
}

// Poll runs the long-polling loop, feeding updates into the dispatcher.
// Used when the webhook endpoint is disabled.
func Poll(api *tgbotapi.BotAPI, d *Dispatcher) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	for update := range api.GetUpdatesChan(u) {
		d.Enqueue(update)
	}
}

var _ services.Notifier = (*Bot)(nil)
