package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port       string `env:"PORT" env-default:"8080"`
	DBDSN      string `env:"DB_DSN" env-default:"tireshop.db"`
	LogFile    string `env:"LOG_FILE" env-default:""`
	UploadDir  string `env:"UPLOAD_DIR" env-default:"./uploads"`
	BotToken   string `env:"BOT_TOKEN"`
	OrdersChat string `env:"ORDERS_CHAT" env-default:"@KolesaUfa02"`
	WebAppURL  string `env:"WEBAPP_URL" env-default:"https://kolesaufa.github.io/shop/"`

	// Updates arrive over the webhook endpoint when enabled, otherwise
	// the process long-polls Telegram itself.
	WebhookEnabled bool `env:"WEBHOOK_ENABLED" env-default:"false"`

	// Zero disables the purge loop: abandoned sessions live until
	// cancel, confirm or restart.
	SessionTTL time.Duration `env:"SESSION_TTL" env-default:"0s"`

	Shop ShopInfo
}

// ShopInfo is the static metadata served by /api/payment-config.
type ShopInfo struct {
	Address        string `env:"SHOP_ADDRESS" env-default:"г. Уфа, ул. Шиномонтажная, 12"`
	Phone          string `env:"SHOP_PHONE" env-default:"+7 (917) 000-00-00"`
	Hours          string `env:"SHOP_HOURS" env-default:"Ежедневно 9:00–20:00"`
	PaymentMethods string `env:"SHOP_PAYMENT_METHODS" env-default:"cash,card,sbp"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s DB_DSN=%s UPLOAD_DIR=%s ORDERS_CHAT=%s webhook=%v",
		cfg.Port, cfg.DBDSN, cfg.UploadDir, cfg.OrdersChat, cfg.WebhookEnabled)
	return cfg, nil
}
