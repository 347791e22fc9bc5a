package catalog

import (
	"fmt"

	"gift-village/apps/server/internal/config"
)

// NewServiceFromConfig opens the catalog backend selected by cfg.CatalogMode.
func NewServiceFromConfig(cfg config.Config) (Service, string, error) {
	mode := cfg.CatalogMode
	switch mode {
	case config.CatalogModeMemory, "":
		return NewMemoryService(), config.CatalogModeMemory, nil
	case config.CatalogModeSQLite:
		dbPath, err := catalogLocalDatabasePath(cfg.LocalDatabasePath)
		if err != nil {
			return nil, mode, err
		}
		svc, err := NewSQLiteService(dbPath)
		if err != nil {
			return nil, mode, fmt.Errorf("open sqlite catalog %s: %w", dbPath, err)
		}
		return svc, mode, nil
	case config.CatalogModePostgres:
		svc, err := NewPostgresService(cfg.DatabaseDSN)
		if err != nil {
			return nil, mode, fmt.Errorf("open postgres catalog: %w", err)
		}
		return svc, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid CATALOG_MODE %q (supported: %s, %s, %s)",
			mode, config.CatalogModeMemory, config.CatalogModeSQLite, config.CatalogModePostgres)
	}
}
