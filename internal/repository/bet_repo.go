package repository

import (
	"context"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/storage"
)

// BetRepository is the bet ledger. It is the only writer of a bet's Payout,
// Settled and IsWinner fields.
type BetRepository struct {
	gw   Gateway
	bets []domain.Bet
}

// NewBetRepository creates an empty BetRepository.
func NewBetRepository(gw Gateway) *BetRepository {
	return &BetRepository{gw: gw}
}

// Load replaces the in-memory ledger with the persisted snapshot.
func (r *BetRepository) Load(ctx context.Context) {
	var bets []domain.Bet
	if r.gw.Get(ctx, storage.KeyBets, &bets) {
		r.bets = bets
		return
	}
	r.bets = nil
}

// Persist writes the bet snapshot.
func (r *BetRepository) Persist(ctx context.Context) {
	r.gw.Put(ctx, storage.KeyBets, r.List())
}

// Add appends b to the ledger. An empty id is filled in; the payout preview
// is derived from b's odds and amount rather than trusted from the caller.
func (r *BetRepository) Add(ctx context.Context, b domain.Bet) domain.Bet {
	if b.ID == "" {
		b.ID = domain.NewBetID()
	}
	b.Settled = false
	b.IsWinner = false
	b.Payout = domain.PreviewPayoutString(&b)
	r.bets = append(r.bets, b)
	r.Persist(ctx)
	return b
}

// Get returns the bet with id.
func (r *BetRepository) Get(id string) (domain.Bet, bool) {
	i := r.index(id)
	if i < 0 {
		return domain.Bet{}, false
	}
	return r.bets[i], true
}

// List returns the whole ledger in insertion order.
func (r *BetRepository) List() []domain.Bet {
	out := make([]domain.Bet, len(r.bets))
	copy(out, r.bets)
	return out
}

// Remove deletes the bet with id. No-op if absent.
func (r *BetRepository) Remove(ctx context.Context, id string) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.bets = append(r.bets[:i], r.bets[i+1:]...)
	r.Persist(ctx)
}

// ListForHorseCategory returns the bets on (horseID, category) in raceID.
// Bets from other races are never included.
func (r *BetRepository) ListForHorseCategory(horseID int, category domain.Category, raceID int) []domain.Bet {
	var out []domain.Bet
	for _, b := range r.bets {
		if b.Matches(horseID, category, raceID) {
			out = append(out, b)
		}
	}
	return out
}

// EnsurePlaceholder returns the bets on (horseID, category) in raceID,
// first adding a blank row when there are none.
func (r *BetRepository) EnsurePlaceholder(ctx context.Context, horseID int, category domain.Category, raceID int) []domain.Bet {
	bets := r.ListForHorseCategory(horseID, category, raceID)
	if len(bets) > 0 {
		return bets
	}
	return []domain.Bet{r.Add(ctx, domain.NewEmptyBet(horseID, category, raceID))}
}

// ListForRace returns every bet struck in raceID.
func (r *BetRepository) ListForRace(raceID int) []domain.Bet {
	var out []domain.Bet
	for _, b := range r.bets {
		if b.RaceID == raceID {
			out = append(out, b)
		}
	}
	return out
}

// Update applies edit to an unsettled bet and refreshes its payout preview.
// It reports false, changing nothing, when the bet is absent or settled.
func (r *BetRepository) Update(ctx context.Context, id string, edit domain.BetEdit) (domain.Bet, bool) {
	i := r.index(id)
	if i < 0 || r.bets[i].Settled {
		return domain.Bet{}, false
	}
	edit.Apply(&r.bets[i])
	r.bets[i].Payout = domain.PreviewPayoutString(&r.bets[i])
	r.Persist(ctx)
	return r.bets[i], true
}

// RefreshPreviews recomputes the preview payout of every unsettled bet,
// assuming it wins, and persists once if any changed. Returns the number of
// bets whose stored payout was stale.
func (r *BetRepository) RefreshPreviews(ctx context.Context) int {
	n := 0
	for i := range r.bets {
		if r.bets[i].Settled {
			continue
		}
		if p := domain.PreviewPayoutString(&r.bets[i]); p != r.bets[i].Payout {
			r.bets[i].Payout = p
			n++
		}
	}
	if n > 0 {
		r.Persist(ctx)
	}
	return n
}

// ApplySettlement writes the settlement outputs of settled back onto the
// matching ledger rows. Bets no longer in the ledger are skipped. Returns
// the number of rows updated.
func (r *BetRepository) ApplySettlement(ctx context.Context, settled []domain.Bet) int {
	n := 0
	for _, s := range settled {
		i := r.index(s.ID)
		if i < 0 {
			continue
		}
		r.bets[i].Payout = s.Payout
		r.bets[i].Settled = s.Settled
		r.bets[i].IsWinner = s.IsWinner
		n++
	}
	if n > 0 {
		r.Persist(ctx)
	}
	return n
}

// RemoveForRace deletes every bet struck in raceID.
func (r *BetRepository) RemoveForRace(ctx context.Context, raceID int) int {
	return r.removeWhere(ctx, func(b *domain.Bet) bool { return b.RaceID == raceID })
}

// RemoveForHorse deletes every bet on horseID.
func (r *BetRepository) RemoveForHorse(ctx context.Context, horseID int) int {
	return r.removeWhere(ctx, func(b *domain.Bet) bool { return b.HorseID == horseID })
}

func (r *BetRepository) removeWhere(ctx context.Context, drop func(*domain.Bet) bool) int {
	kept := r.bets[:0]
	for i := range r.bets {
		if !drop(&r.bets[i]) {
			kept = append(kept, r.bets[i])
		}
	}
	removed := len(r.bets) - len(kept)
	r.bets = kept
	if removed > 0 {
		r.Persist(ctx)
	}
	return removed
}

func (r *BetRepository) index(id string) int {
	for i := range r.bets {
		if r.bets[i].ID == id {
			return i
		}
	}
	return -1
}
