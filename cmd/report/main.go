// Package main prints an end-of-day report of the ledger straight from the
// configured store. It does not start the HTTP server.
//
// Usage:
//
//	report [-race N] [-json]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/evetabi/raceledger/internal/config"
	"github.com/evetabi/raceledger/internal/report"
	"github.com/evetabi/raceledger/internal/repository"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/evetabi/raceledger/internal/storage"
)

func main() {
	raceID := flag.Int("race", 0, "only report this race id")
	asJSON := flag.Bool("json", false, "print JSON instead of a table")
	flag.Parse()

	cfg := config.MustLoad()

	// Logs go to stderr so stdout stays clean for the report itself.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Error("storage open failed", "driver", cfg.Storage.Driver, "err", err)
		os.Exit(1)
	}
	gw := storage.NewGateway(store, logger, cfg.Storage.Timeout)
	defer gw.Close()

	book := service.NewBookService(
		repository.NewRaceRepository(gw),
		repository.NewHorseRepository(gw),
		repository.NewBetRepository(gw),
		logger,
	)
	book.Load(ctx)

	rep, err := report.Build(book, *raceID, time.Now())
	if err != nil {
		logger.Error("report failed", "err", err)
		os.Exit(1)
	}

	if *asJSON {
		err = report.WriteJSON(os.Stdout, rep)
	} else {
		err = report.WriteText(os.Stdout, rep)
	}
	if err != nil {
		logger.Error("write report", "err", err)
		os.Exit(1)
	}
}
