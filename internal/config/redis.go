package config

import "time"

type Redis struct {
	Addr      string        `env:"REDIS_ADDR,required"`
	Username  string        `env:"REDIS_USERNAME"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"catalog"`
	Timeout   time.Duration `env:"REDIS_TIMEOUT" envDefault:"3s"`
}
