package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	CatalogModeMemory   = "memory"
	CatalogModeSQLite   = "sqlite"
	CatalogModePostgres = "postgres"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Addr          string `env:"VILLAGE_ADDR"      envDefault:":3001"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"    envDefault:"http://localhost:5173"`
	SeedPath      string `env:"VILLAGE_SEED_PATH" envDefault:"data/village.yaml"`

	CatalogMode       string `env:"CATALOG_MODE"                envDefault:"memory"`
	LocalDatabasePath string `env:"CATALOG_LOCAL_DATABASE_PATH"`
	DatabaseDSN       string `env:"CATALOG_DATABASE_DSN"`
	AdminKeyHash      string `env:"CATALOG_ADMIN_KEY_HASH"`

	InteractionDistance float64 `env:"VILLAGE_INTERACTION_DISTANCE" envDefault:"60"`
}

// Load reads .env (if present) into the process environment and parses Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] .env not loaded: %v", err)
	}
	return Parse()
}

// Parse builds Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CatalogMode = normalizeCatalogMode(cfg.CatalogMode)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CatalogMode {
	case CatalogModeMemory, CatalogModeSQLite, CatalogModePostgres:
	default:
		return fmt.Errorf("invalid CATALOG_MODE %q (supported: %s, %s, %s)",
			c.CatalogMode, CatalogModeMemory, CatalogModeSQLite, CatalogModePostgres)
	}
	if c.InteractionDistance <= 0 {
		return fmt.Errorf("VILLAGE_INTERACTION_DISTANCE must be > 0, got %v", c.InteractionDistance)
	}
	if strings.TrimSpace(c.SeedPath) == "" {
		return fmt.Errorf("empty VILLAGE_SEED_PATH")
	}
	return nil
}

func normalizeCatalogMode(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "", "mem":
		return CatalogModeMemory
	case "sqlite3", "local":
		return CatalogModeSQLite
	case "postgresql", "pg", "db":
		return CatalogModePostgres
	default:
		return raw
	}
}
