package config

import (
	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, populated from the environment
type Config struct {
	// HTTP server
	Host string `env:"KRINGLE_HOST"`
	Port int    `env:"KRINGLE_PORT" envDefault:"8080"`

	// Storage backend: "memory" or "redis"
	StorageType string `env:"KRINGLE_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"KRINGLE_REDIS_URL" envDefault:"redis://localhost:6379"`

	// KDFIterations overrides the PBKDF2 iteration count; zero keeps the
	// built-in default. Lowering it weakens sealed assignments.
	KDFIterations int `env:"KRINGLE_KDF_ITERATIONS"`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
