package bot

import (
	"io"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tireshop/internal/domain"
	"tireshop/internal/repos"
	"tireshop/internal/services"
)

const adminID = int64(7)

type fakeAPI struct {
	sent []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if mc, ok := f.sent[i].(tgbotapi.MessageConfig); ok {
			return mc.Text
		}
	}
	t.Fatal("no message sent")
	return ""
}

type fakeFiles struct{}

func (fakeFiles) Fetch(fileID string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("jpeg-bytes")), nil
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *repos.ProductRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	prodRepo := repos.NewProductRepo(db)
	gate := services.NewAdminGate(repos.NewAdminRepo(db), "12345:TEST")
	if err := gate.Load(); err != nil {
		t.Fatal(err)
	}
	if err := gate.Register(adminID, "boss"); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{}
	b := &Bot{
		api:        api,
		files:      fakeFiles{},
		sessions:   NewMemorySessionStore(),
		products:   prodRepo,
		gate:       gate,
		uploads:    services.NewUploadService(t.TempDir()),
		webAppURL:  "https://shop.example",
		ordersChat: "@orders",
	}
	return b, api, prodRepo
}

func textUpdate(uid int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: uid},
		Chat: &tgbotapi.Chat{ID: uid, Type: "private"},
		Text: text,
	}}
}

func commandUpdate(uid int64, cmd string) tgbotapi.Update {
	u := textUpdate(uid, cmd)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return u
}

func callbackUpdate(uid int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: uid},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: uid, Type: "private"}},
		Data:    data,
	}}
}

func productCount(t *testing.T, r *repos.ProductRepo) int {
	t.Helper()
	all, err := r.List(true)
	if err != nil {
		t.Fatal(err)
	}
	return len(all)
}

func TestAddFlowConfirmYesCreatesExactlyOneRow(t *testing.T) {
	b, _, prodRepo := newTestBot(t)
	before := productCount(t, prodRepo)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Зимняя шина Тест"))
	b.HandleUpdate(textUpdate(adminID, "4800"))
	b.HandleUpdate(textUpdate(adminID, "-"))
	b.HandleUpdate(textUpdate(adminID, "Отличная шина"))
	b.HandleUpdate(textUpdate(adminID, "Winter, 205/55R16 ,, Ice Grip"))
	b.HandleUpdate(callbackUpdate(adminID, "confirm:yes"))

	if got := productCount(t, prodRepo); got != before+1 {
		t.Fatalf("want exactly one new row, got %d new", got-before)
	}
	all, _ := prodRepo.List(true)
	p := all[0] // newest first
	if p.Name != "Зимняя шина Тест" || p.Price != 4800 {
		t.Fatalf("stored fields differ from collected: %+v", p)
	}
	if p.Image != domain.DefaultGlyph {
		t.Fatalf("skipped image should store default glyph, got %q", p.Image)
	}
	if p.Description != "Отличная шина" {
		t.Fatalf("description mismatch: %q", p.Description)
	}
	if p.SpecsJSON != `["Winter","205/55R16","Ice Grip"]` {
		t.Fatalf("specs not trimmed/dropped: %s", p.SpecsJSON)
	}
	if !p.Active {
		t.Fatal("new product must be active")
	}
	if _, ok := b.sessions.Get(adminID); ok {
		t.Fatal("session must be cleared after confirm")
	}
}

func TestPriceValidationKeepsStep(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Шина"))

	for _, bad := range []string{"0", "-5", "abc"} {
		b.HandleUpdate(textUpdate(adminID, bad))
		sess, ok := b.sessions.Get(adminID)
		if !ok {
			t.Fatalf("session lost after price %q", bad)
		}
		if sess.Step != StepPrice {
			t.Fatalf("price %q must not advance the step, at %q", bad, sess.Step)
		}
		if !strings.Contains(api.lastText(t), "Цена") {
			t.Fatalf("want corrective prompt, got %q", api.lastText(t))
		}
	}

	b.HandleUpdate(textUpdate(adminID, "4800"))
	sess, _ := b.sessions.Get(adminID)
	if sess.Step != StepImage {
		t.Fatalf("valid price should advance to image step, at %q", sess.Step)
	}
}

func TestCancelDiscardsEverything(t *testing.T) {
	b, _, prodRepo := newTestBot(t)
	before := productCount(t, prodRepo)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Шина"))
	b.HandleUpdate(commandUpdate(adminID, "/cancel"))

	if _, ok := b.sessions.Get(adminID); ok {
		t.Fatal("cancel must clear the session")
	}
	if productCount(t, prodRepo) != before {
		t.Fatal("cancel must not persist anything")
	}

	// a fresh /add starts over at the name step with an empty draft
	b.HandleUpdate(commandUpdate(adminID, "/add"))
	sess, ok := b.sessions.Get(adminID)
	if !ok || sess.Step != StepName || sess.Draft.Name != "" {
		t.Fatalf("restart must begin empty at waiting_name: %+v", sess)
	}
}

func TestConfirmNoDiscards(t *testing.T) {
	b, _, prodRepo := newTestBot(t)
	before := productCount(t, prodRepo)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Шина"))
	b.HandleUpdate(textUpdate(adminID, "100"))
	b.HandleUpdate(textUpdate(adminID, "-"))
	b.HandleUpdate(textUpdate(adminID, "-"))
	b.HandleUpdate(textUpdate(adminID, "-"))
	b.HandleUpdate(callbackUpdate(adminID, "confirm:no"))

	if productCount(t, prodRepo) != before {
		t.Fatal("confirm:no must not create a row")
	}
	if _, ok := b.sessions.Get(adminID); ok {
		t.Fatal("session must be cleared")
	}
}

func TestGlyphMenuFeedsImageStep(t *testing.T) {
	b, _, _ := newTestBot(t)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Шина"))
	b.HandleUpdate(textUpdate(adminID, "100"))
	b.HandleUpdate(callbackUpdate(adminID, "glyph:❄️"))

	sess, ok := b.sessions.Get(adminID)
	if !ok || sess.Step != StepDescription {
		t.Fatalf("glyph pick must advance like typed text, at %+v", sess)
	}
	if sess.Draft.Image != "❄️" {
		t.Fatalf("want ❄️, got %q", sess.Draft.Image)
	}
}

func TestPhotoStoredAsUpload(t *testing.T) {
	b, _, _ := newTestBot(t)

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Шина"))
	b.HandleUpdate(textUpdate(adminID, "100"))

	u := textUpdate(adminID, "")
	u.Message.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "big"}}
	b.HandleUpdate(u)

	sess, _ := b.sessions.Get(adminID)
	if sess.Step != StepDescription {
		t.Fatalf("photo must advance the step, at %q", sess.Step)
	}
	if !strings.HasPrefix(sess.Draft.Image, "/api/uploads/") {
		t.Fatalf("photo should become a stored-file reference, got %q", sess.Draft.Image)
	}
}

func TestAddRequiresAdmin(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.HandleUpdate(commandUpdate(999, "/add"))
	if _, ok := b.sessions.Get(999); ok {
		t.Fatal("non-admin must not open a session")
	}
	if api.lastText(t) != "Нет доступа." {
		t.Fatalf("want refusal, got %q", api.lastText(t))
	}
}

func TestAddFlowThroughDispatcherKeepsAnswerOrder(t *testing.T) {
	b, _, _ := newTestBot(t)

	// same worker count as production wiring
	d := NewDispatcher(4, 256, b.HandleUpdate)
	d.Start()
	defer d.Stop()

	// run the opening of the flow many times: each answer must land in
	// the field the step it was typed at collects
	for i := 0; i < 25; i++ {
		d.Enqueue(commandUpdate(adminID, "/add"))
		d.Enqueue(textUpdate(adminID, "Шина Тест"))
		d.Enqueue(textUpdate(adminID, "4800"))
		d.Drain()

		sess, ok := b.sessions.Get(adminID)
		if !ok {
			t.Fatalf("iteration %d: session missing", i)
		}
		if sess.Step != StepImage {
			t.Fatalf("iteration %d: answers consumed out of order, at %q with name %q", i, sess.Step, sess.Draft.Name)
		}
		if sess.Draft.Name != "Шина Тест" || sess.Draft.Price != 4800 {
			t.Fatalf("iteration %d: draft got crossed answers: %+v", i, sess.Draft)
		}

		d.Enqueue(commandUpdate(adminID, "/cancel"))
		d.Drain()
	}
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	b, _, _ := newTestBot(t)
	other := int64(8)
	if err := b.gate.Register(other, "second"); err != nil {
		t.Fatal(err)
	}

	b.HandleUpdate(commandUpdate(adminID, "/add"))
	b.HandleUpdate(commandUpdate(other, "/add"))
	b.HandleUpdate(textUpdate(adminID, "Шина А"))

	s1, _ := b.sessions.Get(adminID)
	s2, _ := b.sessions.Get(other)
	if s1.Step != StepPrice || s2.Step != StepName {
		t.Fatalf("sessions interfered: %q vs %q", s1.Step, s2.Step)
	}
	if s2.Draft.Name != "" {
		t.Fatalf("draft leaked across users: %q", s2.Draft.Name)
	}
}
