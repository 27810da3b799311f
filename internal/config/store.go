package config

import (
	"fmt"
	"strings"
)

type Store struct {
	Driver StoreDriver `env:"STORE_DRIVER" envDefault:"MEMORY"`
}

// StoreDriver selects the backend of the catalog record cache.
type StoreDriver uint8

const (
	StoreDriverMemory StoreDriver = iota
	StoreDriverRedis
	StoreDriverPostgres
)

func (d StoreDriver) String() string {
	return []string{"MEMORY", "REDIS", "POSTGRES"}[d]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StoreDriver) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "MEMORY":
		*d = StoreDriverMemory
	case "REDIS":
		*d = StoreDriverRedis
	case "POSTGRES":
		*d = StoreDriverPostgres
	default:
		return fmt.Errorf("unknown store driver: %s", text)
	}
	return nil
}

func (d StoreDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
