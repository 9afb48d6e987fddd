package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/metrics"
)

// SettlementService resolves a race: it checks the finishing order, settles
// every bet struck in the race, records the results and closes the race.
type SettlementService struct {
	book        *BookService
	logger      *slog.Logger
	broadcaster Broadcaster // injected after WS Hub is built
}

// NewSettlementService builds a SettlementService on top of book.
func NewSettlementService(book *BookService, logger *slog.Logger) *SettlementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettlementService{book: book, logger: logger}
}

// SetBroadcaster injects the WS Hub dependency post-construction.
func (s *SettlementService) SetBroadcaster(b Broadcaster) { s.broadcaster = b }

// SettlementResult is what a settlement pass produced.
type SettlementResult struct {
	Race    domain.Race    `json:"race"`
	Bets    []domain.Bet   `json:"bets"`
	Summary domain.Summary `json:"summary"`
}

// ──────────────────────────────────────────────────────────────────────────────
// SettleRace
// ──────────────────────────────────────────────────────────────────────────────

// SettleRace settles raceID against results. Settling again with the same
// results gives the same payouts; settling with different results overwrites
// the previous pass.
func (s *SettlementService) SettleRace(ctx context.Context, raceID int, results domain.Results) (*SettlementResult, error) {
	res, err := s.book.settle(ctx, raceID, results)
	if err != nil {
		return nil, fmt.Errorf("settlement_service.SettleRace %d: %w", raceID, err)
	}

	won := 0
	for _, b := range res.Bets {
		if b.IsWinner {
			won++
		}
	}
	metrics.RacesSettled.Inc()
	metrics.BetsSettled.WithLabelValues("won").Add(float64(won))
	metrics.BetsSettled.WithLabelValues("lost").Add(float64(len(res.Bets) - won))

	s.logger.Info("race settled",
		"race_id", raceID,
		"first", results.First, "second", results.Second, "third", results.Third,
		"bets", len(res.Bets), "winners", won,
		"total_payout", res.Summary.TotalPayout.StringFixed(2))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRaceSettled(res.Race, res.Bets, res.Summary)
	}
	return res, nil
}

// settle runs the settlement pass under the book lock.
func (s *BookService) settle(ctx context.Context, raceID int, results domain.Results) (*SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.races.Get(raceID); !ok {
		return nil, domain.ErrRaceNotFound
	}
	if err := s.validateResults(raceID, results); err != nil {
		return nil, err
	}

	settled := domain.Settle(s.bets.ListForRace(raceID), &results)
	s.bets.ApplySettlement(ctx, settled)
	s.races.SetResults(ctx, raceID, results)
	s.races.End(ctx, raceID)

	race, _ := s.races.Get(raceID)
	return &SettlementResult{
		Race:    race,
		Bets:    settled,
		Summary: domain.Summarize(settled),
	}, nil
}

// validateResults requires a winner and that every named placegetter runs in
// the race. Zero second/third means no placing was recorded.
func (s *BookService) validateResults(raceID int, results domain.Results) error {
	if results.First == 0 {
		return domain.ErrInvalidResults
	}
	for _, id := range results.HorseIDs() {
		horse, ok := s.horses.Get(id)
		if !ok || horse.RaceID != raceID {
			return domain.ErrInvalidResults
		}
	}
	return nil
}
