package main

import "time"

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production"`
	Name string `env:"APP_NAME" envDefault:"pedidoz-backoffice"`

	// CatalogSeedFile, when set, is upserted into the plan collections at startup.
	CatalogSeedFile        string        `env:"CATALOG_SEED_FILE"`
	CatalogRefreshSchedule string        `env:"CATALOG_REFRESH_SCHEDULE" envDefault:"@every 5m"`
	OwnerCacheSize         int           `env:"OWNER_CACHE_SIZE" envDefault:"1024" validate:"gt=0"`
	OwnerCacheTTL          time.Duration `env:"OWNER_CACHE_TTL" envDefault:"5m" validate:"gt=0"`
	QRCodeSize             int           `env:"QRCODE_SIZE" envDefault:"256" validate:"gte=64,lte=1024"`
}
