package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	entries  sync.Map // reflect.Type -> *entry
	dotenv   sync.Once
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load parses environment variables into v and validates the result.
//
// The .env file in the working directory is read once per process; a missing
// file is not an error. Each config type is parsed at most once, later calls
// receive a copy of the cached value. Besides the `env` tags handled by
// caarlos0/env, fields may carry `validate` tags checked with go-playground/validator.
//
//	type GatewayConfig struct {
//		AccessToken string        `env:"MERCADO_PAGO_ACCESS_TOKEN,required"`
//		Timeout     time.Duration `env:"MERCADO_PAGO_TIMEOUT" envDefault:"10s" validate:"gt=0,lte=10s"`
//	}
//
//	var cfg GatewayConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	dotenv.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := reflect.TypeFor[T]()
	raw, _ := entries.LoadOrStore(key, &entry{})
	e := raw.(*entry)

	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		if reflect.TypeFor[T]().Kind() == reflect.Struct {
			if err := validate.Struct(&parsed); err != nil {
				e.err = errors.Join(ErrInvalidConfig, err)
				return
			}
		}
		e.value = parsed
	})

	if e.err != nil {
		return e.err
	}
	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration %T: %v", *v, err))
	}
}

// Reset drops every cached config so the next Load parses the environment again.
func Reset() {
	entries.Range(func(key, _ any) bool {
		entries.Delete(key)
		return true
	})
}
