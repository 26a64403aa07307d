package billing

import "time"

// Config holds the orchestrator settings read from the environment.
type Config struct {
	FrontURL        string        `env:"PEDIDOZ_FRONT_URL,required" validate:"url"`
	FreePlanURL     string        `env:"PEDIDOZ_FREE_PLAN_URL" envDefault:"https://www.pedidoz.online/organizacoes" validate:"url"`
	OverdueAfter    time.Duration `env:"INVOICE_OVERDUE_AFTER" envDefault:"72h" validate:"gt=0"`
	OverdueSchedule string        `env:"INVOICE_OVERDUE_SCHEDULE" envDefault:"@every 1h"`
	LockTTL         time.Duration `env:"SUBSCRIPTION_LOCK_TTL" envDefault:"30s" validate:"gt=0"`
}

// DefaultFreePlanURL is where free subscriptions land instead of a checkout page.
const DefaultFreePlanURL = "https://www.pedidoz.online/organizacoes"
