package service

import (
	"context"

	"github.com/evetabi/raceledger/internal/domain"
)

// PlaceBetRequest carries a new wager. A zero RaceID means the current race;
// an empty Type means Cash.
type PlaceBetRequest struct {
	HorseID  int
	Category domain.Category
	RaceID   int
	Customer string
	Type     domain.PaymentType
	Odds     domain.Number
	Amount   domain.Number
}

// ──────────────────────────────────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────────────────────────────────

// Bet returns one bet.
func (s *BookService) Bet(id string) (domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bet, ok := s.bets.Get(id)
	if !ok {
		return domain.Bet{}, domain.ErrBetNotFound
	}
	return bet, nil
}

// BetsForRace lists every bet struck in a race. A zero raceID means the
// current race.
func (s *BookService) BetsForRace(raceID int) ([]domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resolveRace(raceID)
	if err != nil {
		return nil, err
	}
	return s.bets.ListForRace(id), nil
}

// BetsFor returns the rows the view shows for one (horse, category) cell.
// When the cell of an open race is empty a blank placeholder bet is created
// so there is always a row to edit. Ended races are listed as they stand.
func (s *BookService) BetsFor(ctx context.Context, horseID int, category domain.Category, raceID int) ([]domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	race, err := s.runnerRace(raceID, horseID)
	if err != nil {
		return nil, err
	}
	if race.Ended {
		return s.bets.ListForHorseCategory(horseID, category, race.ID), nil
	}
	return s.bets.EnsurePlaceholder(ctx, horseID, category, race.ID), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Writes
// ──────────────────────────────────────────────────────────────────────────────

// PlaceBet validates req and appends the bet to the ledger with its payout
// preview filled in. The horse must run in the bet's race and the race must
// not have ended.
func (s *BookService) PlaceBet(ctx context.Context, req PlaceBetRequest) (domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !req.Category.IsValid() {
		return domain.Bet{}, domain.ErrInvalidCategory
	}
	if req.Type == "" {
		req.Type = domain.PaymentCash
	}
	if !req.Type.IsValid() {
		return domain.Bet{}, domain.ErrInvalidPaymentType
	}
	race, err := s.runnerRace(req.RaceID, req.HorseID)
	if err != nil {
		return domain.Bet{}, err
	}
	if race.Ended {
		return domain.Bet{}, domain.ErrRaceEnded
	}
	raceID := race.ID

	bet := s.bets.Add(ctx, domain.Bet{
		HorseID:  req.HorseID,
		Category: req.Category,
		RaceID:   raceID,
		Customer: req.Customer,
		Type:     req.Type,
		Odds:     req.Odds,
		Amount:   req.Amount,
	})
	s.notify(ResourceBets, raceID)
	return bet, nil
}

// UpdateBet edits an unsettled bet and refreshes its payout preview.
func (s *BookService) UpdateBet(ctx context.Context, id string, edit domain.BetEdit) (domain.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if edit.Type != nil && !edit.Type.IsValid() {
		return domain.Bet{}, domain.ErrInvalidPaymentType
	}
	current, ok := s.bets.Get(id)
	if !ok {
		return domain.Bet{}, domain.ErrBetNotFound
	}
	if current.Settled {
		return domain.Bet{}, domain.ErrBetSettled
	}
	bet, _ := s.bets.Update(ctx, id, edit)
	s.notify(ResourceBets, bet.RaceID)
	return bet, nil
}

// DeleteBet removes a bet from the ledger.
func (s *BookService) DeleteBet(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bet, ok := s.bets.Get(id)
	if !ok {
		return domain.ErrBetNotFound
	}
	s.bets.Remove(ctx, id)
	s.notify(ResourceBets, bet.RaceID)
	return nil
}

// runnerRace resolves raceID (0 means current) and checks that horseID runs
// in it. Callers hold s.mu.
func (s *BookService) runnerRace(raceID, horseID int) (domain.Race, error) {
	id, err := s.resolveRace(raceID)
	if err != nil {
		return domain.Race{}, err
	}
	horse, ok := s.horses.Get(horseID)
	if !ok {
		return domain.Race{}, domain.ErrHorseNotFound
	}
	if horse.RaceID != id {
		return domain.Race{}, domain.ErrHorseNotInRace
	}
	race, _ := s.races.Get(id)
	return race, nil
}
