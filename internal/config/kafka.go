package config

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"catalog-pricing"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"catalog-pricing"`
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool {
	return len(k.Addresses) > 0
}
