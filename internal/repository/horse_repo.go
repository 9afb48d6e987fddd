package repository

import (
	"context"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/storage"
)

// HorseRepository is the horse registry. Every horse is scoped to one race.
type HorseRepository struct {
	gw     Gateway
	horses []domain.Horse
	lastID int // high-water mark so ids are not reused after a delete
}

// NewHorseRepository creates an empty HorseRepository.
func NewHorseRepository(gw Gateway) *HorseRepository {
	return &HorseRepository{gw: gw}
}

// Load replaces the in-memory horses with the persisted snapshot.
func (r *HorseRepository) Load(ctx context.Context) {
	var horses []domain.Horse
	if r.gw.Get(ctx, storage.KeyHorses, &horses) {
		r.horses = horses
	} else {
		r.horses = nil
	}
	r.lastID = 0
}

// Persist writes the horse snapshot.
func (r *HorseRepository) Persist(ctx context.Context) {
	r.gw.Put(ctx, storage.KeyHorses, r.List())
}

// Add creates a horse with a fresh id. A zero spec.RaceID is replaced by
// currentRaceID.
func (r *HorseRepository) Add(ctx context.Context, spec domain.HorseSpec, currentRaceID int) domain.Horse {
	raceID := spec.RaceID
	if raceID == 0 {
		raceID = currentRaceID
	}
	h := domain.Horse{ID: r.nextID(), RaceID: raceID, Name: spec.Name}
	r.horses = append(r.horses, h)
	r.Persist(ctx)
	return h
}

// Get returns the horse with id.
func (r *HorseRepository) Get(id int) (domain.Horse, bool) {
	i := r.index(id)
	if i < 0 {
		return domain.Horse{}, false
	}
	return r.horses[i], true
}

// List returns every horse in insertion order.
func (r *HorseRepository) List() []domain.Horse {
	out := make([]domain.Horse, len(r.horses))
	copy(out, r.horses)
	return out
}

// UpdateName renames the horse. No-op if absent.
func (r *HorseRepository) UpdateName(ctx context.Context, id int, name string) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.horses[i].Name = name
	r.Persist(ctx)
}

// ListForRace returns the horses running in raceID, in insertion order.
func (r *HorseRepository) ListForRace(raceID int) []domain.Horse {
	var out []domain.Horse
	for _, h := range r.horses {
		if h.RaceID == raceID {
			out = append(out, h)
		}
	}
	return out
}

// BackfillRaceID assigns raceID to every horse saved before horses were
// scoped to races. Run once at load time. Returns the number of horses
// migrated.
func (r *HorseRepository) BackfillRaceID(ctx context.Context, raceID int) int {
	n := 0
	for i := range r.horses {
		if r.horses[i].RaceID == 0 {
			r.horses[i].RaceID = raceID
			n++
		}
	}
	if n > 0 {
		r.Persist(ctx)
	}
	return n
}

// Remove deletes the horse with id. No-op if absent.
func (r *HorseRepository) Remove(ctx context.Context, id int) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.horses = append(r.horses[:i], r.horses[i+1:]...)
	r.Persist(ctx)
}

// RemoveForRace deletes every horse running in raceID and returns how many
// were removed.
func (r *HorseRepository) RemoveForRace(ctx context.Context, raceID int) int {
	kept := r.horses[:0]
	for _, h := range r.horses {
		if h.RaceID != raceID {
			kept = append(kept, h)
		}
	}
	removed := len(r.horses) - len(kept)
	r.horses = kept
	if removed > 0 {
		r.Persist(ctx)
	}
	return removed
}

// ReserveIDs raises the id high-water mark so none of ids is handed out
// again. Load only sees live horses, so ids still named elsewhere (race
// results, bets) are reserved by the caller after loading.
func (r *HorseRepository) ReserveIDs(ids ...int) {
	for _, id := range ids {
		if id > r.lastID {
			r.lastID = id
		}
	}
}

func (r *HorseRepository) nextID() int {
	for _, h := range r.horses {
		if h.ID > r.lastID {
			r.lastID = h.ID
		}
	}
	r.lastID++
	return r.lastID
}

func (r *HorseRepository) index(id int) int {
	for i := range r.horses {
		if r.horses[i].ID == id {
			return i
		}
	}
	return -1
}
