package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gearscan/infrastructure/audit"
	httpserver "gearscan/infrastructure/http"
	"gearscan/infrastructure/sqlite"
)

func main() {
	addr := getenv("APP_ADDR", ":8081")
	dbPath := getenv("SQLITE_PATH", "gearscan.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	auditSvc := audit.NewService()

	server := httpserver.NewServer(addr)
	server.RegisterCatalogRoutes(db, auditSvc)

	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("catalogd listening on %s (db %s)", addr, dbPath)

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
