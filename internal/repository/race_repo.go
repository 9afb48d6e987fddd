package repository

import (
	"context"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/storage"
)

// RaceRepository is the race registry. It is the sole owner of the
// current-race pointer.
type RaceRepository struct {
	gw      Gateway
	races   []domain.Race
	current *int
}

// NewRaceRepository creates an empty RaceRepository.
func NewRaceRepository(gw Gateway) *RaceRepository {
	return &RaceRepository{gw: gw}
}

// Load replaces the in-memory state with the persisted snapshot. Missing or
// unreadable snapshots leave the registry empty.
func (r *RaceRepository) Load(ctx context.Context) {
	var races []domain.Race
	if r.gw.Get(ctx, storage.KeyRaces, &races) {
		r.races = races
	} else {
		r.races = nil
	}

	var current *int
	if r.gw.Get(ctx, storage.KeyCurrentRaceID, &current) && current != nil && r.index(*current) >= 0 {
		r.current = current
	} else {
		r.current = nil
		if len(r.races) > 0 {
			id := r.races[0].ID
			r.current = &id
		}
	}
}

// Persist writes both snapshots.
func (r *RaceRepository) Persist(ctx context.Context) {
	r.gw.Put(ctx, storage.KeyRaces, r.snapshot())
	r.gw.Put(ctx, storage.KeyCurrentRaceID, r.current)
}

// NextID returns 1 for an empty registry, otherwise the largest id plus one.
func (r *RaceRepository) NextID() int {
	maxID := 0
	for _, race := range r.races {
		if race.ID > maxID {
			maxID = race.ID
		}
	}
	return maxID + 1
}

// Add creates a race from spec. The first race added to a registry with no
// current race becomes current.
func (r *RaceRepository) Add(ctx context.Context, spec domain.RaceSpec) domain.Race {
	id := spec.ID
	if id <= 0 {
		id = r.NextID()
	}
	name := spec.Name
	if name == "" {
		name = domain.DefaultRaceName(id)
	}
	race := domain.Race{ID: id, Name: name}
	r.races = append(r.races, race)
	if r.current == nil {
		r.current = &id
	}
	r.Persist(ctx)
	return race
}

// Get returns the race with id.
func (r *RaceRepository) Get(id int) (domain.Race, bool) {
	i := r.index(id)
	if i < 0 {
		return domain.Race{}, false
	}
	return r.races[i], true
}

// List returns all races in insertion order.
func (r *RaceRepository) List() []domain.Race {
	return r.snapshot()
}

// End marks the race as ended. No-op if absent.
func (r *RaceRepository) End(ctx context.Context, id int) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.races[i].Ended = true
	r.Persist(ctx)
}

// SetResults records the finishing order on the race. No-op if absent.
func (r *RaceRepository) SetResults(ctx context.Context, id int, results domain.Results) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.races[i].Results = &results
	r.Persist(ctx)
}

// Delete removes the race. When it was current, the first remaining race
// becomes current, or none when the registry is empty. It does not touch
// horses or bets. No-op if absent.
func (r *RaceRepository) Delete(ctx context.Context, id int) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.races = append(r.races[:i], r.races[i+1:]...)
	if r.current != nil && *r.current == id {
		r.current = nil
		if len(r.races) > 0 {
			next := r.races[0].ID
			r.current = &next
		}
	}
	r.Persist(ctx)
}

// SetCurrent points the registry at id. The id is not checked, matching a
// store that may briefly disagree with the view.
func (r *RaceRepository) SetCurrent(ctx context.Context, id int) {
	r.current = &id
	r.gw.Put(ctx, storage.KeyCurrentRaceID, r.current)
}

// Current returns the current race id, if any.
func (r *RaceRepository) Current() (int, bool) {
	if r.current == nil {
		return 0, false
	}
	return *r.current, true
}

func (r *RaceRepository) index(id int) int {
	for i := range r.races {
		if r.races[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *RaceRepository) snapshot() []domain.Race {
	out := make([]domain.Race, len(r.races))
	copy(out, r.races)
	return out
}
