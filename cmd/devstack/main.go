package main

import (
	"net/http"
	"os"
	"os/signal"
	"time"

	"remitauth/internal/auth/provider/memory"
	"remitauth/internal/devstack"
	"remitauth/internal/platform/config"
	"remitauth/internal/platform/httpserver"
	"remitauth/internal/platform/logger"
)

// main wires the local development stack: an in-memory identity provider
// exposed over the same HTTP surface the real provider serves, plus a fake
// backend that mints session tokens on import.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	identity := memory.New()
	backend := devstack.NewBackend(identity, []byte(cfg.DevstackSigningKey))
	server := devstack.NewServer(identity, backend, log)

	srv := httpserver.New(cfg.DevstackAddr, server.Router())

	log.Info("starting devstack", "addr", cfg.DevstackAddr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
