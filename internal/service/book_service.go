package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Interfaces injected into BookService to avoid import cycles
// ──────────────────────────────────────────────────────────────────────────────

// Broadcaster is the minimal interface the services need from the WS hub.
// Implemented by ws.Hub.
type Broadcaster interface {
	BroadcastLedgerChanged(resource string, raceID int)
	BroadcastRaceSettled(race domain.Race, bets []domain.Bet, summary domain.Summary)
}

// Resources named in ledger change notifications.
const (
	ResourceRaces  = "races"
	ResourceHorses = "horses"
	ResourceBets   = "bets"
)

// ──────────────────────────────────────────────────────────────────────────────
// BookService
// ──────────────────────────────────────────────────────────────────────────────

// BookService owns the three registries and serialises every operation on
// them behind one mutex, so each call runs to completion before the next.
//
// The registries are total and silent about missing ids; BookService is the
// boundary that turns those cases into domain errors and enforces cascading
// deletes.
type BookService struct {
	mu          sync.Mutex
	races       *repository.RaceRepository
	horses      *repository.HorseRepository
	bets        *repository.BetRepository
	logger      *slog.Logger
	broadcaster Broadcaster // injected after WS Hub is built
}

// NewBookService creates a BookService over the given registries.
func NewBookService(
	races *repository.RaceRepository,
	horses *repository.HorseRepository,
	bets *repository.BetRepository,
	logger *slog.Logger,
) *BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookService{
		races:  races,
		horses: horses,
		bets:   bets,
		logger: logger,
	}
}

// SetBroadcaster injects the WS Hub dependency post-construction.
func (s *BookService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// Load rebuilds the registries from the last persisted snapshot and runs the
// raceId backfill for horses saved before they were scoped to a race.
func (s *BookService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.races.Load(ctx)
	s.horses.Load(ctx)
	s.bets.Load(ctx)

	if cur, ok := s.races.Current(); ok {
		if n := s.horses.BackfillRaceID(ctx, cur); n > 0 {
			s.logger.Info("backfilled horse race ids", "race_id", cur, "count", n)
		}
	}

	// Results of settled races may name horses that were deleted since.
	for _, race := range s.races.List() {
		s.horses.ReserveIDs(race.Results.HorseIDs()...)
	}
	for _, b := range s.bets.List() {
		s.horses.ReserveIDs(b.HorseID)
	}

	if n := s.bets.RefreshPreviews(ctx); n > 0 {
		s.logger.Info("refreshed stale payout previews", "count", n)
	}

	s.logger.Info("ledger loaded",
		"races", len(s.races.List()),
		"horses", len(s.horses.List()),
		"bets", len(s.bets.List()))
}

// Resync rewrites every snapshot from memory. A write that failed softly
// earlier is healed by the next resync.
func (s *BookService) Resync(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.races.Persist(ctx)
	s.horses.Persist(ctx)
	s.bets.Persist(ctx)
}

// ──────────────────────────────────────────────────────────────────────────────
// Races
// ──────────────────────────────────────────────────────────────────────────────

// Races returns every race in insertion order.
func (s *BookService) Races() []domain.Race {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.races.List()
}

// Race returns one race.
func (s *BookService) Race(id int) (domain.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	race, ok := s.races.Get(id)
	if !ok {
		return domain.Race{}, domain.ErrRaceNotFound
	}
	return race, nil
}

// NextRaceID previews the id the next auto-numbered race will get.
func (s *BookService) NextRaceID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.races.NextID()
}

// AddRace creates a race. An explicit id that is already taken is rejected.
func (s *BookService) AddRace(ctx context.Context, spec domain.RaceSpec) (domain.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.ID > 0 {
		if _, taken := s.races.Get(spec.ID); taken {
			return domain.Race{}, domain.ErrRaceExists
		}
	}
	race := s.races.Add(ctx, spec)
	s.logger.Info("race added", "race_id", race.ID, "name", race.Name)
	s.notify(ResourceRaces, race.ID)
	return race, nil
}

// CurrentRace returns the race new horses and bets default to.
func (s *BookService) CurrentRace() (domain.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRace()
}

// SetCurrentRace switches the current race.
func (s *BookService) SetCurrentRace(ctx context.Context, id int) (domain.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	race, ok := s.races.Get(id)
	if !ok {
		return domain.Race{}, domain.ErrRaceNotFound
	}
	s.races.SetCurrent(ctx, id)
	s.notify(ResourceRaces, id)
	return race, nil
}

// EndRace closes a race without settling it.
func (s *BookService) EndRace(ctx context.Context, id int) (domain.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.races.Get(id); !ok {
		return domain.Race{}, domain.ErrRaceNotFound
	}
	s.races.End(ctx, id)
	race, _ := s.races.Get(id)
	s.notify(ResourceRaces, id)
	return race, nil
}

// DeleteRace removes a race together with its horses and bets.
func (s *BookService) DeleteRace(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.races.Get(id); !ok {
		return domain.ErrRaceNotFound
	}
	bets := s.bets.RemoveForRace(ctx, id)
	horses := s.horses.RemoveForRace(ctx, id)
	s.races.Delete(ctx, id)

	s.logger.Info("race deleted", "race_id", id, "horses", horses, "bets", bets)
	s.notify(ResourceRaces, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Horses
// ──────────────────────────────────────────────────────────────────────────────

// AddHorse enters a horse. A zero spec.RaceID means the current race.
func (s *BookService) AddHorse(ctx context.Context, spec domain.HorseSpec) (domain.Horse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raceID, err := s.resolveRace(spec.RaceID)
	if err != nil {
		return domain.Horse{}, err
	}
	spec.RaceID = raceID
	horse := s.horses.Add(ctx, spec, raceID)
	s.notify(ResourceHorses, raceID)
	return horse, nil
}

// RenameHorse changes a horse's name.
func (s *BookService) RenameHorse(ctx context.Context, id int, name string) (domain.Horse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.horses.Get(id); !ok {
		return domain.Horse{}, domain.ErrHorseNotFound
	}
	s.horses.UpdateName(ctx, id, name)
	horse, _ := s.horses.Get(id)
	s.notify(ResourceHorses, horse.RaceID)
	return horse, nil
}

// DeleteHorse scratches a horse and every bet on it.
func (s *BookService) DeleteHorse(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	horse, ok := s.horses.Get(id)
	if !ok {
		return domain.ErrHorseNotFound
	}
	bets := s.bets.RemoveForHorse(ctx, id)
	s.horses.Remove(ctx, id)

	s.logger.Info("horse deleted", "horse_id", id, "race_id", horse.RaceID, "bets", bets)
	s.notify(ResourceHorses, horse.RaceID)
	return nil
}

// HorsesForRace lists the field of a race. A zero raceID means the current race.
func (s *BookService) HorsesForRace(raceID int) ([]domain.Horse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resolveRace(raceID)
	if err != nil {
		return nil, err
	}
	return s.horses.ListForRace(id), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Summary
// ──────────────────────────────────────────────────────────────────────────────

// Summary reports the bets of the current race. With no current race it is
// the empty summary.
func (s *BookService) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentSummary()
}

// RaceSummary reports the bets of one race.
func (s *BookService) RaceSummary(raceID int) (domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.races.Get(raceID); !ok {
		return domain.Summary{}, domain.ErrRaceNotFound
	}
	return domain.Summarize(s.bets.ListForRace(raceID)), nil
}

// LedgerSummary reports every bet in the ledger across all races.
func (s *BookService) LedgerSummary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Summarize(s.bets.List())
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers (callers hold s.mu)
// ──────────────────────────────────────────────────────────────────────────────

func (s *BookService) currentRace() (domain.Race, error) {
	id, ok := s.races.Current()
	if !ok {
		return domain.Race{}, domain.ErrNoCurrentRace
	}
	race, ok := s.races.Get(id)
	if !ok {
		return domain.Race{}, domain.ErrRaceNotFound
	}
	return race, nil
}

func (s *BookService) currentSummary() domain.Summary {
	id, ok := s.races.Current()
	if !ok {
		return domain.Summarize(nil)
	}
	return domain.Summarize(s.bets.ListForRace(id))
}

// resolveRace maps 0 to the current race and checks the race exists.
func (s *BookService) resolveRace(raceID int) (int, error) {
	if raceID == 0 {
		race, err := s.currentRace()
		if err != nil {
			return 0, err
		}
		return race.ID, nil
	}
	if _, ok := s.races.Get(raceID); !ok {
		return 0, domain.ErrRaceNotFound
	}
	return raceID, nil
}

func (s *BookService) notify(resource string, raceID int) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLedgerChanged(resource, raceID)
	}
}
