package bot

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tireshop/internal/domain"
	applog "tireshop/internal/log"
	"tireshop/internal/validate"
)

// presetGlyphs is the image-step shortcut menu. Picking one produces the
// same transition as typing the glyph.
var presetGlyphs = []string{"🛞", "❄️", "🎯", "⭐", "🏁", "🌨️"}

// cmdAdd opens (or silently restarts) the add-product conversation at the
// name step. Prior collected data is discarded on restart.
func (b *Bot) cmdAdd(m *tgbotapi.Message) {
	if !b.gate.IsAdmin(m.From.ID) {
		b.reply(m.Chat.ID, "Нет доступа.")
		return
	}
	b.sessions.Put(&Session{UserID: m.From.ID, Step: StepName})
	b.reply(m.Chat.ID, "Добавляем товар. Введите название:\n\n/cancel — отменить в любой момент")
}

func (b *Bot) cmdCancel(m *tgbotapi.Message) {
	if _, ok := b.sessions.Get(m.From.ID); !ok {
		b.reply(m.Chat.ID, "Нечего отменять.")
		return
	}
	b.sessions.Delete(m.From.ID)
	b.reply(m.Chat.ID, "❌ Добавление товара отменено. Ничего не сохранено.")
}

// handleStep feeds a non-command message into the user's current step.
// Validation failure keeps the step; success stores the value and
// advances. No transitions back to earlier steps exist.
func (b *Bot) handleStep(m *tgbotapi.Message, sess *Session) {
	switch sess.Step {
	case StepName:
		b.stepName(m, sess)
	case StepPrice:
		b.stepPrice(m, sess)
	case StepImage:
		b.stepImage(m, sess)
	case StepDescription:
		b.stepDescription(m, sess)
	case StepSpecs:
		b.stepSpecs(m, sess)
	case StepConfirm:
		b.reply(m.Chat.ID, "Нажмите ✅ или ❌ под карточкой товара, либо /cancel.")
	}
}

func (b *Bot) stepName(m *tgbotapi.Message, sess *Session) {
	name, ok := validate.ProductName(m.Text)
	if !ok {
		b.reply(m.Chat.ID, "Название не может быть пустым. Введите название товара:")
		return
	}
	sess.Draft.Name = name
	sess.Step = StepPrice
	b.sessions.Put(sess)
	b.reply(m.Chat.ID, "Введите цену в рублях (целое число):")
}

func (b *Bot) stepPrice(m *tgbotapi.Message, sess *Session) {
	price, ok := validate.Price(m.Text)
	if !ok {
		b.reply(m.Chat.ID, "Цена должна быть целым числом больше нуля, например 4800. Введите цену:")
		return
	}
	sess.Draft.Price = price
	sess.Step = StepImage
	b.sessions.Put(sess)

	msg := tgbotapi.NewMessage(m.Chat.ID,
		"Пришлите фото товара, эмодзи или ссылку на картинку.\nВыберите из готовых или отправьте «-», чтобы оставить 🛞:")
	msg.ReplyMarkup = glyphKeyboard()
	b.send(msg)
}

func glyphKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(presetGlyphs))
	for _, g := range presetGlyphs {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(g, "glyph:"+g))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func (b *Bot) stepImage(m *tgbotapi.Message, sess *Session) {
	switch {
	case len(m.Photo) > 0:
		path, err := b.storePhoto(m.Photo)
		if err != nil {
			applog.EventError("bot.photo_store", err, map[string]any{"user_id": sess.UserID})
			b.reply(m.Chat.ID, "Не удалось сохранить фото. Пришлите другое или отправьте «-».")
			return
		}
		sess.Draft.Image = path
	case strings.TrimSpace(m.Text) == validate.Skip:
		sess.Draft.Image = domain.DefaultGlyph
	case strings.TrimSpace(m.Text) != "":
		sess.Draft.Image = strings.TrimSpace(m.Text)
	default:
		b.reply(m.Chat.ID, "Пришлите фото, эмодзи, ссылку или «-».")
		return
	}
	b.advanceFromImage(m.Chat.ID, sess)
}

// callbackGlyph is the second input channel into the image step.
func (b *Bot) callbackGlyph(cq *tgbotapi.CallbackQuery) {
	sess, ok := b.sessions.Get(cq.From.ID)
	if !ok || sess.Step != StepImage {
		return
	}
	sess.Draft.Image = strings.TrimPrefix(cq.Data, "glyph:")
	b.advanceFromImage(cq.Message.Chat.ID, sess)
}

func (b *Bot) advanceFromImage(chatID int64, sess *Session) {
	sess.Step = StepDescription
	b.sessions.Put(sess)
	b.reply(chatID, "Введите описание товара (или «-», чтобы пропустить):")
}

// storePhoto downloads the largest size of the attached photo and saves
// it under the uploads directory.
func (b *Bot) storePhoto(sizes []tgbotapi.PhotoSize) (string, error) {
	best := sizes[len(sizes)-1]
	rc, err := b.files.Fetch(best.FileID)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return b.uploads.Save("photo.jpg", rc)
}

func (b *Bot) stepDescription(m *tgbotapi.Message, sess *Session) {
	text := strings.TrimSpace(m.Text)
	if text == validate.Skip {
		text = ""
	}
	sess.Draft.Description = text
	sess.Step = StepSpecs
	b.sessions.Put(sess)
	b.reply(m.Chat.ID, "Введите характеристики через запятую, например:\nSummer, 205/55R16, Speed T\n\nили «-», чтобы пропустить:")
}

func (b *Bot) stepSpecs(m *tgbotapi.Message, sess *Session) {
	sess.Draft.Specs = validate.Specs(m.Text)
	sess.Step = StepConfirm
	b.sessions.Put(sess)

	msg := tgbotapi.NewMessage(m.Chat.ID, "Проверьте карточку товара:\n\n"+draftCard(sess.Draft)+"\n\nСохранить?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", "confirm:yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет", "confirm:no"),
		),
	)
	b.send(msg)
}

// callbackConfirm resolves the two-way branch at the confirm step. Yes
// commits exactly one product row; no discards everything. Both clear
// the session.
func (b *Bot) callbackConfirm(cq *tgbotapi.CallbackQuery) {
	sess, ok := b.sessions.Get(cq.From.ID)
	if !ok || sess.Step != StepConfirm {
		return
	}
	chatID := cq.Message.Chat.ID

	if cq.Data == "confirm:no" {
		b.sessions.Delete(cq.From.ID)
		b.reply(chatID, "❌ Добавление товара отменено. Ничего не сохранено.")
		return
	}

	specs := sess.Draft.Specs
	if specs == nil {
		specs = []string{}
	}
	specsJSON, _ := json.Marshal(specs)

	id, err := b.products.Insert(sess.Draft.Name, sess.Draft.Price, sess.Draft.Image, sess.Draft.Description, string(specsJSON))
	if err != nil {
		applog.EventError("bot.product_insert", err, map[string]any{"user_id": cq.From.ID})
		b.reply(chatID, "Не удалось сохранить товар. Попробуйте ещё раз.")
		return
	}
	b.sessions.Delete(cq.From.ID)
	applog.Event("bot.product_added", map[string]any{"product_id": id, "admin_id": cq.From.ID})
	b.reply(chatID, fmt.Sprintf("✅ Товар добавлен: #%d\n\n%s", id, draftCard(sess.Draft)))
}

func draftCard(d domain.ProductDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s — %d ₽", d.Image, d.Name, d.Price)
	if d.Description != "" {
		fmt.Fprintf(&b, "\n%s", d.Description)
	}
	if len(d.Specs) > 0 {
		fmt.Fprintf(&b, "\n%s", strings.Join(d.Specs, " · "))
	}
	return b.String()
}
