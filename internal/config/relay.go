package config

import "time"

// Relay configures how often and how much of the outbox is published.
type Relay struct {
	BatchSize      uint32        `env:"RELAY_BATCH_SIZE" envDefault:"50"`
	Interval       time.Duration `env:"RELAY_INTERVAL" envDefault:"500ms"`
	ProduceTimeout time.Duration `env:"RELAY_PRODUCE_TIMEOUT" envDefault:"10s"`
}
