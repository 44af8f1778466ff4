package main

import (
	"io"
	"log"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tireshop/internal/bot"
	"tireshop/internal/config"
	"tireshop/internal/http/handlers"
	applog "tireshop/internal/log"
	"tireshop/internal/repos"
	"tireshop/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Admin gate: load persisted admins into memory once
	gate := services.NewAdminGate(repos.NewAdminRepo(db), cfg.BotToken)
	if err := gate.Load(); err != nil {
		log.Fatal(err)
	}

	// Bot wiring
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal(err)
	}
	sessions := bot.NewMemorySessionStore()
	stop := make(chan struct{})
	bot.StartPurgeLoop(sessions, cfg.SessionTTL, stop)

	tg := bot.New(api, sessions, repos.NewProductRepo(db), gate,
		services.NewUploadService(cfg.UploadDir), cfg.WebAppURL, cfg.OrdersChat)

	dispatcher := bot.NewDispatcher(4, 256, tg.HandleUpdate)
	dispatcher.Start()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 4 << 20 // product photos come through here

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	// WebApp is served from another origin (GitHub Pages)
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, gate, tg, dispatcher)

	apiGrp := app.Group("/api")
	apiGrp.Get("/products", deps.CatalogHandler.List)
	apiGrp.Delete("/products/:id", deps.CatalogHandler.Delete)
	apiGrp.Post("/products/upload-image", deps.UploadHandler.Upload)
	apiGrp.Get("/uploads/:name", deps.UploadHandler.Serve)
	apiGrp.Post("/order", deps.OrderHandler.Submit)
	apiGrp.Get("/orders", deps.OrderHandler.List)
	apiGrp.Get("/payment-config", deps.MetaHandler.PaymentConfig)
	apiGrp.Get("/health", deps.MetaHandler.Health)

	if cfg.WebhookEnabled {
		app.Post("/telegram/webhook", deps.WebhookHandler.Receive)
	} else {
		go bot.Poll(api, dispatcher)
	}

	// log.Fatal would skip deferred cleanup, so stop the workers first
	err = app.Listen(":" + cfg.Port)
	dispatcher.Stop()
	close(stop)
	if err != nil {
		log.Fatal(err)
	}
}
