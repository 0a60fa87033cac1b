// Package config loads server configuration from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	MongoDSN      string `env:"MONGODB_DSN" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"hikari"`
	RedisDSN      string `env:"REDIS_DSN" envDefault:"redis://localhost:6379/0"`

	ServerDomain string `env:"SERVER_DOMAIN" envDefault:"hikari.pw"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`
	Debug        bool   `env:"DEBUG" envDefault:"false"`

	MenuIconURL  string `env:"MAIN_MENU_ICON_URL" envDefault:""`
	MenuClickURL string `env:"MAIN_MENU_CLICK_URL" envDefault:""`

	APISecret string `env:"API_SECRET" envDefault:""`
	OsuAPIKey string `env:"OSU_API_KEY" envDefault:""`

	GeolocDBPath string `env:"GEOLOC_DB_PATH" envDefault:"ext/geoloc.mmdb"`
}

// Load reads .env (tolerated if missing) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration every value would resolve to with an
// empty environment. Tests build on it.
func Default() *Config {
	return &Config{
		MongoDSN:      "mongodb://localhost:27017",
		MongoDatabase: "hikari",
		RedisDSN:      "redis://localhost:6379/0",
		ServerDomain:  "hikari.pw",
		ServerPort:    8080,
		GeolocDBPath:  "ext/geoloc.mmdb",
	}
}
