package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"studioadmin/internal/backend"
	"studioadmin/internal/dashboard"
	"studioadmin/internal/dashboard/device"
	"studioadmin/internal/dashboard/token"
	"studioadmin/internal/platform/config"
	"studioadmin/internal/platform/events"
	"studioadmin/internal/platform/health"
	"studioadmin/internal/platform/httpserver"
	"studioadmin/internal/platform/logger"
	"studioadmin/internal/platform/metrics"
	"studioadmin/internal/session"
	"studioadmin/internal/studio"
	"studioadmin/internal/studio/selection"
	"studioadmin/pkg/platform/circuit"
	"studioadmin/pkg/secrets"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing studioadmin",
		"addr", cfg.Addr,
		"backend", cfg.BackendBaseURL,
		"login_surface", cfg.LoginSurface,
	)

	signingKey := cfg.SigningKey
	if signingKey == "" {
		generated, err := secrets.GenerateSigningKey()
		if err != nil {
			log.Error("failed to generate signing key", "error", err)
			os.Exit(1)
		}
		signingKey = generated
		log.Warn("DASHBOARD_SIGNING_KEY not set, using ephemeral key; sessions will not survive a restart")
	}

	m := metrics.New()
	bus := events.NewBus()

	client := backend.New(backend.Config{
		BaseURL:    cfg.BackendBaseURL,
		CookieName: cfg.BackendCookieName,
		Timeout:    cfg.BackendTimeout,
		Logger:     log,
		Metrics:    m,
	})
	bookings := backend.NewCache(client, 0, log)

	sessionStore := session.New(client, bus,
		session.WithLogger(log),
		session.WithMetrics(m),
		session.WithLoginSurface(cfg.LoginSurface),
	)
	studioStore := studio.New(sessionStore, selection.NewFileStore(cfg.StateDir), bus,
		studio.WithLogger(log),
		studio.WithMetrics(m),
		studio.WithBreaker(circuit.New("studio-list")),
	)

	rootCtx := context.Background()
	sessionStore.Start(rootCtx)
	studioStore.Start(rootCtx)

	handler := dashboard.New(dashboard.Config{
		Session:       sessionStore,
		Studio:        studioStore,
		Backend:       client,
		Bookings:      bookings,
		Tokens:        token.NewService(signingKey, "studioadmin", cfg.SessionTTL),
		Devices:       device.NewService(true),
		Logger:        log,
		Metrics:       m,
		SecureCookies: cfg.Environment == "production",
	})

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("backend", func(ctx context.Context) error {
		_, err := client.Get(ctx, "/health")
		return err
	})

	router := dashboard.NewRouter(handler, healthHandler, log, cfg.OpsTokenHash)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
