package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Types & constants
// ──────────────────────────────────────────────────────────────────────────────

// Category is the finishing position a bet is struck on.
type Category string

const (
	CategoryWin   Category = "win"   // horse must finish first
	CategoryPlace Category = "place" // horse must finish in the first three
)

// IsValid returns true if the category is a recognised bet category.
func (c Category) IsValid() bool {
	return c == CategoryWin || c == CategoryPlace
}

// PaymentType is how the customer pays for the wager.
type PaymentType string

const (
	PaymentCash   PaymentType = "Cash"
	PaymentCredit PaymentType = "Credit"
)

// IsValid returns true if the payment type is Cash or Credit.
func (p PaymentType) IsValid() bool {
	return p == PaymentCash || p == PaymentCredit
}

// ──────────────────────────────────────────────────────────────────────────────
// Bet
// ──────────────────────────────────────────────────────────────────────────────

// Bet is one row of the ledger: a wager by a customer on a horse in a race.
//
// Payout, Settled and IsWinner are written only by the bet ledger, either as a
// preview while the row is edited or as the output of a settlement pass.
type Bet struct {
	ID       string      `json:"id"`
	HorseID  int         `json:"horseId"`
	Category Category    `json:"category"`
	RaceID   int         `json:"raceId"`
	Customer string      `json:"customer"`
	Type     PaymentType `json:"type"`
	Odds     Number      `json:"odds"`
	Amount   Number      `json:"amount"`
	Payout   string      `json:"payout"` // fixed 2dp, or "" when not computable
	Settled  bool        `json:"settled"`
	IsWinner bool        `json:"isWinner"`
}

// NewBetID returns a time-ordered, random-suffixed identifier.
func NewBetID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewEmptyBet returns a blank placeholder row for (horse, category) in raceID.
func NewEmptyBet(horseID int, category Category, raceID int) Bet {
	return Bet{
		ID:       NewBetID(),
		HorseID:  horseID,
		Category: category,
		RaceID:   raceID,
		Type:     PaymentCash,
	}
}

// Matches reports whether the bet belongs to the given (horse, category, race).
func (b *Bet) Matches(horseID int, category Category, raceID int) bool {
	return b.HorseID == horseID && b.Category == category && b.RaceID == raceID
}

// PayoutValue parses the stored payout string; "" reads as zero.
func (b *Bet) PayoutValue() decimal.Decimal {
	d, err := decimal.NewFromString(b.Payout)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// BetEdit: value object used by the ledger
// ──────────────────────────────────────────────────────────────────────────────

// BetEdit carries the editable fields of a bet. Nil fields are left unchanged.
type BetEdit struct {
	Customer *string
	Type     *PaymentType
	Odds     *Number
	Amount   *Number
}

// Apply copies the set fields of e onto b.
func (e BetEdit) Apply(b *Bet) {
	if e.Customer != nil {
		b.Customer = *e.Customer
	}
	if e.Type != nil {
		b.Type = *e.Type
	}
	if e.Odds != nil {
		b.Odds = *e.Odds
	}
	if e.Amount != nil {
		b.Amount = *e.Amount
	}
}
