// Package scheduler manages the background goroutines that keep the ledger
// view and its snapshots fresh:
//  1. summaryBroadcastLoop – pushes the current race summary to WS clients.
//  2. resyncLoop           – rewrites every snapshot so a soft-failed write is healed.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/evetabi/raceledger/internal/config"
	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/ws"
)

// ──────────────────────────────────────────────────────────────────────────────
// Interfaces
// ──────────────────────────────────────────────────────────────────────────────

// WsHub defines the broadcast operations the Scheduler needs from the WebSocket
// hub.
type WsHub interface {
	BroadcastSummary(msg ws.SummaryMessage)
}

// Book is the slice of service.BookService the loops drive.
type Book interface {
	CurrentRace() (domain.Race, error)
	Summary() domain.Summary
	Resync(ctx context.Context)
}

// ──────────────────────────────────────────────────────────────────────────────
// Scheduler
// ──────────────────────────────────────────────────────────────────────────────

// Scheduler runs the background loops. Call Start(ctx) once from main();
// cancel the context to shut it down.
type Scheduler struct {
	book   Book
	hub    WsHub
	cfg    config.SchedulerConfig
	logger *slog.Logger
}

// NewScheduler creates a Scheduler. hub may be nil, which disables the
// summary broadcast.
func NewScheduler(book Book, hub WsHub, cfg config.SchedulerConfig, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		book:   book,
		hub:    hub,
		cfg:    cfg,
		logger: logger,
	}
}

// Start launches the background goroutines. It returns immediately; all
// loops run until ctx is cancelled. A non-positive interval disables its loop.
func (s *Scheduler) Start(ctx context.Context) {
	if s.hub != nil && s.cfg.SummaryInterval > 0 {
		go s.summaryBroadcastLoop(ctx)
	}
	if s.cfg.ResyncInterval > 0 {
		go s.resyncLoop(ctx)
	}
	s.logger.Info("scheduler started",
		"summary_interval", s.cfg.SummaryInterval,
		"resync_interval", s.cfg.ResyncInterval)
}

// ──────────────────────────────────────────────────────────────────────────────
// summaryBroadcastLoop
// ──────────────────────────────────────────────────────────────────────────────

func (s *Scheduler) summaryBroadcastLoop(ctx context.Context) {
	defer s.recoverAndLog("summaryBroadcastLoop")

	ticker := time.NewTicker(s.cfg.SummaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("summaryBroadcastLoop: shutting down")
			return
		case <-ticker.C:
			s.BroadcastSummary()
		}
	}
}

// BroadcastSummary pushes one SummaryMessage for the current race.
func (s *Scheduler) BroadcastSummary() {
	if s.hub == nil {
		return
	}
	msg := ws.SummaryMessage{
		Type:      ws.MsgTypeSummary,
		Summary:   s.book.Summary(),
		Timestamp: time.Now().UTC(),
	}
	if race, err := s.book.CurrentRace(); err == nil {
		msg.RaceID = race.ID
	}
	s.hub.BroadcastSummary(msg)
}

// ──────────────────────────────────────────────────────────────────────────────
// resyncLoop
// ──────────────────────────────────────────────────────────────────────────────

func (s *Scheduler) resyncLoop(ctx context.Context) {
	defer s.recoverAndLog("resyncLoop")

	ticker := time.NewTicker(s.cfg.ResyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("resyncLoop: shutting down")
			return
		case <-ticker.C:
			s.book.Resync(ctx)
			s.logger.Debug("snapshots resynced")
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Panic recovery
// ──────────────────────────────────────────────────────────────────────────────

// recoverAndLog is deferred inside each goroutine to catch unexpected panics
// and log them.
func (s *Scheduler) recoverAndLog(loop string) {
	if r := recover(); r != nil {
		s.logger.Error("PANIC recovered in scheduler loop",
			"loop", loop, "panic", r)
	}
}
