package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gearscan/api/scan"
	"gearscan/infrastructure/cache"
	"gearscan/infrastructure/catalog"
	httpserver "gearscan/infrastructure/http"
)

func main() {
	addr := getenv("APP_ADDR", ":8080")
	catalogURL := getenv("CATALOG_URL", "http://localhost:8081")
	debounce := getenvDuration("SCAN_DEBOUNCE_MS", 100) * time.Millisecond

	gateway := catalog.NewClient(catalogURL, nil)
	store := cache.NewScanSessionStore(0)

	server := httpserver.NewServer(addr)
	server.RegisterScanRoutes(scan.Config{
		Store:    store,
		Gateway:  gateway,
		Debounce: debounce,
	})

	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("gearscan listening on %s (catalog %s)", addr, catalogURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
