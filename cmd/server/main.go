// Package main is the entry point for the raceledger API server. It wires
// the ledger services to the configured store and starts the HTTP server
// alongside the WebSocket hub and background scheduler.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evetabi/raceledger/internal/api"
	"github.com/evetabi/raceledger/internal/config"
	"github.com/evetabi/raceledger/internal/repository"
	"github.com/evetabi/raceledger/internal/scheduler"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/evetabi/raceledger/internal/storage"
	"github.com/evetabi/raceledger/internal/ws"
)

func main() {
	// ── 1. Logger ─────────────────────────────────────────────────────────────
	cfg := config.MustLoad()

	var logHandler slog.Handler
	if cfg.IsProd() {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("starting raceledger server",
		"env", cfg.Server.Env, "port", cfg.Server.Port, "storage", cfg.Storage.Driver)

	// ── 2. Root context + signal handling ─────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Storage ────────────────────────────────────────────────────────────
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Error("storage open failed", "driver", cfg.Storage.Driver, "err", err)
		os.Exit(1)
	}
	gw := storage.NewGateway(store, logger, cfg.Storage.Timeout)
	logger.Info("storage ready", "driver", cfg.Storage.Driver)

	// ── 4. Repositories ───────────────────────────────────────────────────────
	raceRepo := repository.NewRaceRepository(gw)
	horseRepo := repository.NewHorseRepository(gw)
	betRepo := repository.NewBetRepository(gw)

	// ── 5. Services ───────────────────────────────────────────────────────────
	book := service.NewBookService(raceRepo, horseRepo, betRepo, logger)
	book.Load(ctx)

	settler := service.NewSettlementService(book, logger)

	sessions := service.NewSessionService(gw, nil)
	sessions.Start(ctx, cfg.Session.UserID)

	// ── 6. WebSocket Hub ──────────────────────────────────────────────────────
	hub := ws.NewHub(cfg.Server.AllowedOrigins, logger)
	book.SetBroadcaster(hub)
	settler.SetBroadcaster(hub)

	go hub.Run()
	logger.Info("websocket hub started")

	// ── 7. Scheduler ──────────────────────────────────────────────────────────
	sched := scheduler.NewScheduler(book, hub, cfg.Scheduler, logger)
	sched.Start(ctx)

	// ── 8. HTTP Router ────────────────────────────────────────────────────────
	router := api.SetupRouter(api.RouterDeps{
		Book:     book,
		Settler:  settler,
		Sessions: sessions,
		Hub:      hub,
		Cfg:      cfg,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// ── 9. Start server ───────────────────────────────────────────────────────
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop() // trigger graceful shutdown
		}
	}()

	// ── 10. Graceful shutdown ─────────────────────────────────────────────────
	<-ctx.Done()
	logger.Info("shutdown signal received, draining connections…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}

	// Final write-through of the in-memory ledger before the store closes.
	book.Resync(shutdownCtx)
	hub.Stop()

	if err = gw.Close(); err != nil {
		logger.Error("storage close error", "err", err)
	}
	logger.Info("server stopped cleanly")
}
