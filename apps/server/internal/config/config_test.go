package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Addr != ":3001" {
		t.Fatalf("expected :3001, got %q", cfg.Addr)
	}
	if cfg.CatalogMode != CatalogModeMemory {
		t.Fatalf("expected memory mode, got %q", cfg.CatalogMode)
	}
	if cfg.InteractionDistance != 60 {
		t.Fatalf("expected interaction distance 60, got %v", cfg.InteractionDistance)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("VILLAGE_ADDR", ":9000")
	t.Setenv("CATALOG_MODE", "PostgreSQL")
	t.Setenv("CATALOG_DATABASE_DSN", "postgres://localhost/village")
	t.Setenv("VILLAGE_INTERACTION_DISTANCE", "75.5")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.CatalogMode != CatalogModePostgres {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DatabaseDSN != "postgres://localhost/village" || cfg.InteractionDistance != 75.5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{key: "CATALOG_MODE", value: "redis", want: "invalid CATALOG_MODE"},
		{key: "VILLAGE_INTERACTION_DISTANCE", value: "-1", want: "must be > 0"},
		{key: "VILLAGE_INTERACTION_DISTANCE", value: "far", want: "parse env"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Parse()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
