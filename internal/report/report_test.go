package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/report"
	"github.com/evetabi/raceledger/internal/repository"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/evetabi/raceledger/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLedger books two races: race 1 settled with one winning cash bet,
// race 2 still open with one credit bet.
func newLedger(t *testing.T) *service.BookService {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := storage.NewGateway(storage.NewMemoryStore(), logger, 0)
	book := service.NewBookService(
		repository.NewRaceRepository(gw),
		repository.NewHorseRepository(gw),
		repository.NewBetRepository(gw),
		logger,
	)

	_, err := book.AddRace(ctx, domain.RaceSpec{})
	require.NoError(t, err)
	_, err = book.AddRace(ctx, domain.RaceSpec{Name: "Evening"})
	require.NoError(t, err)

	a, err := book.AddHorse(ctx, domain.HorseSpec{Name: "A"})
	require.NoError(t, err)
	b, err := book.AddHorse(ctx, domain.HorseSpec{RaceID: 2, Name: "B"})
	require.NoError(t, err)

	_, err = book.PlaceBet(ctx, service.PlaceBetRequest{
		HorseID: a.ID, Category: domain.CategoryWin, Customer: "ann",
		Odds: domain.ParseNumber("2.5"), Amount: domain.ParseNumber("10"),
	})
	require.NoError(t, err)
	_, err = book.PlaceBet(ctx, service.PlaceBetRequest{
		HorseID: b.ID, Category: domain.CategoryPlace, RaceID: 2, Customer: "bob",
		Type: domain.PaymentCredit, Odds: domain.ParseNumber("3"), Amount: domain.ParseNumber("20"),
	})
	require.NoError(t, err)

	_, err = service.NewSettlementService(book, logger).SettleRace(ctx, 1, domain.Results{First: a.ID})
	require.NoError(t, err)
	return book
}

func TestBuild_AllRaces(t *testing.T) {
	book := newLedger(t)
	now := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	rep, err := report.Build(book, 0, now)
	require.NoError(t, err)

	assert.Equal(t, now, rep.GeneratedAt)
	require.Len(t, rep.Races, 2)

	first := rep.Races[0]
	assert.Equal(t, 1, first.Race.ID)
	assert.True(t, first.Current)
	assert.Equal(t, "35", first.Summary.TotalPayout.String())
	assert.Equal(t, 1, first.Summary.SettledCount)

	second := rep.Races[1]
	assert.Equal(t, "Evening", second.Race.Name)
	assert.False(t, second.Current)
	assert.Equal(t, "20", second.Summary.TotalBets.String())
	assert.Equal(t, 0, second.Summary.SettledCount)

	assert.Equal(t, 2, rep.Ledger.BetCount)
	assert.Equal(t, "30", rep.Ledger.TotalBets.String())
	assert.Equal(t, "4.5", rep.Ledger.TotalTax.String())
}

func TestBuild_SingleRace(t *testing.T) {
	book := newLedger(t)

	rep, err := report.Build(book, 2, time.Now())
	require.NoError(t, err)
	require.Len(t, rep.Races, 1)
	assert.Equal(t, 2, rep.Races[0].Race.ID)
	assert.Equal(t, 2, rep.Ledger.BetCount, "ledger totals always span every race")

	_, err = report.Build(book, 9, time.Now())
	assert.ErrorIs(t, err, domain.ErrRaceNotFound)
}

func TestWriteText(t *testing.T) {
	rep, err := report.Build(newLedger(t), 0, time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, rep))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "PAYOUT")
	assert.Contains(t, lines[1], "settled")
	assert.Contains(t, lines[1], "35.00")
	assert.Contains(t, lines[2], "open")
	assert.Contains(t, lines[3], "LEDGER")
	assert.Contains(t, lines[3], "4.50")
}

func TestWriteJSON(t *testing.T) {
	rep, err := report.Build(newLedger(t), 0, time.Now())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, rep))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out["races"], 2)
	ledger := out["ledger"].(map[string]any)
	assert.Equal(t, "30", ledger["totalBets"])
}

func TestBuild_EmptyLedger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := storage.NewGateway(storage.NewMemoryStore(), logger, 0)
	book := service.NewBookService(
		repository.NewRaceRepository(gw),
		repository.NewHorseRepository(gw),
		repository.NewBetRepository(gw),
		logger,
	)

	rep, err := report.Build(book, 0, time.Now())
	require.NoError(t, err)
	assert.Empty(t, rep.Races)
	assert.Equal(t, 0, rep.Ledger.BetCount)
}
