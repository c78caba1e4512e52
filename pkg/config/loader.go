package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg, which must be a pointer to a
// struct using `env` and `envDefault` tags:
//
//	type Config struct {
//	    Port    int  `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    Premium bool `env:"PREMIUM_USER" envDefault:"true"`
//	}
func Load(cfg any) error {
	return LoadWithEnvironment(cfg, nil)
}

// LoadWithEnvironment is Load reading from the given map instead of the
// process environment. A nil map means the process environment.
func LoadWithEnvironment(cfg any, environment map[string]string) error {
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
