package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"gift-village/apps/server/internal/auth"
	"gift-village/apps/server/internal/catalog"
	"gift-village/apps/server/internal/config"
	"gift-village/apps/server/internal/gateway"
	"gift-village/apps/server/internal/lobby"
	"gift-village/village"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Failed to load config: %v", err)
	}

	catalogService, catalogMode, err := catalog.NewServiceFromConfig(cfg)
	if err != nil {
		log.Fatalf("[Server] Failed to init catalog: %v", err)
	}
	defer catalogService.Close()

	seed, err := village.LoadSeed(cfg.SeedPath)
	if err != nil {
		log.Fatalf("[Server] Failed to load seed %s: %v", cfg.SeedPath, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = catalogService.Import(ctx, seed)
	cancel()
	if err != nil {
		log.Fatalf("[Server] Failed to import seed: %v", err)
	}

	worldCfg := village.DefaultConfig()
	worldCfg.InteractionDistance = cfg.InteractionDistance

	admin := auth.NewAdminVerifier(cfg.AdminKeyHash)
	lby := lobby.New(catalogService, worldCfg)
	gw := gateway.New(lby, cfg.AllowedOrigin)
	catalogHTTP := catalog.NewHTTPHandler(catalogService, admin)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/api/health", handleHealth)
	catalogHTTP.RegisterRoutes(mux)

	log.Printf("[Server] Catalog mode: %s (%d shops, %d gifts, %d characters)",
		catalogMode, len(seed.Shops), len(seed.Gifts), len(seed.Characters))
	if !admin.Enabled() {
		log.Printf("[Server] CATALOG_ADMIN_KEY_HASH not set, admin API disabled")
	}
	log.Printf("[Server] Starting server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, withCORS(cfg.AllowedOrigin, mux)); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
