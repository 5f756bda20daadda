package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"certifier/internal/audit"
	auditmemory "certifier/internal/audit/store/memory"
	auditsqlite "certifier/internal/audit/store/sqlite"
	"certifier/internal/auth"
	"certifier/internal/platform/config"
	"certifier/internal/platform/httpserver"
	"certifier/internal/platform/logger"
	"certifier/internal/platform/metrics"
	"certifier/internal/report"
	httptransport "certifier/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	var store audit.Store
	if cfg.DBPath == "" {
		log.Warn("no db path configured, audit history will not survive restarts")
		store = auditmemory.NewInMemoryStore()
	} else {
		sqliteStore, err := auditsqlite.New(cfg.DBPath)
		if err != nil {
			log.Error("open audit store", "error", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	auditService, err := audit.NewService(store, log, m, cfg.Operator)
	if err != nil {
		log.Error("wire audit service", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(cfg.AccessKey, cfg.Sensitivity)
	certifier := report.NewCertifier(cfg.Operator)

	handler := httptransport.NewHandler(log, m, authService, auditService, certifier)
	router := httptransport.NewRouter(handler)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting insight certifier", "addr", cfg.Addr, "db_path", cfg.DBPath)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
