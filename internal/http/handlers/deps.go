package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"tireshop/internal/bot"
	"tireshop/internal/config"
	"tireshop/internal/repos"
	"tireshop/internal/services"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	OrderHandler   *OrderHandler
	UploadHandler  *UploadHandler
	MetaHandler    *MetaHandler
	WebhookHandler *WebhookHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, gate *services.AdminGate, notifier services.Notifier, d *bot.Dispatcher) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	orderSvc := services.NewOrderService(orderRepo, notifier)
	uploadSvc := services.NewUploadService(cfg.UploadDir)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc, Products: prodRepo, Gate: gate},
		OrderHandler:   &OrderHandler{Order: orderSvc, Orders: orderRepo, Gate: gate, Validate: validator.New()},
		UploadHandler:  &UploadHandler{Uploads: uploadSvc, Gate: gate},
		MetaHandler:    &MetaHandler{Shop: cfg.Shop},
		WebhookHandler: &WebhookHandler{Dispatcher: d},
	}
}
