package mongo

import "time"

// Config holds the document store connection settings.
type Config struct {
	ConnectionURL    string        `env:"DATABASE_HOST,required"`
	Database         string        `env:"DATABASE_NAME" envDefault:"pedidoz"`
	ConnectTimeout   time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"10s"`
	OperationTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	MaxPoolSize      uint64        `env:"DATABASE_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize      uint64        `env:"DATABASE_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime  time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts    int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1"`
	RetryInterval    time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`
}
