package config

import "time"

// Catalog configures the remote catalog the record cache is seeded from.
type Catalog struct {
	BaseURL string        `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
	Timeout time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
}
