package mercadopago

import "time"

// Config holds the Mercado Pago credentials and client settings.
// WebhookSecret is loaded for completeness; notifications are not signature checked.
type Config struct {
	AccessToken     string        `env:"MERCADO_PAGO_ACCESS_TOKEN,required"`
	WebhookSecret   string        `env:"MERCADO_PAGO_WEBHOOK_SECRET"`
	NotificationURL string        `env:"MERCADO_PAGO_NOTIFICATION_URL" validate:"omitempty,url"`
	Timeout         time.Duration `env:"MERCADO_PAGO_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	BreakerFailures uint32        `env:"MERCADO_PAGO_BREAKER_FAILURES" envDefault:"5" validate:"gt=0"`
	BreakerCooldown time.Duration `env:"MERCADO_PAGO_BREAKER_COOLDOWN" envDefault:"30s"`
	CurrencyID      string        `env:"MERCADO_PAGO_CURRENCY" envDefault:"BRL"`
}
