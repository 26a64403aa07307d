package redis

import "time"

// Config selects the Redis server. ConnectionURL wins when set; otherwise the
// address is assembled from Host and Port. Redis is optional: Enabled reports
// whether any address was configured.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	Host           string        `env:"REDIS_HOST"`
	Port           int           `env:"REDIS_PORT" envDefault:"6379"`
	Username       string        `env:"REDIS_USERNAME"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether an address was configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != "" || c.Host != ""
}
