package domain

import "github.com/shopspring/decimal"

// ──────────────────────────────────────────────────────────────────────────────
// Tax policy
// ──────────────────────────────────────────────────────────────────────────────

// TaxRate is the fixed betting tax (15 %).
var TaxRate = decimal.NewFromFloat(0.15)

// Tax returns the tax owed on amount.
func Tax(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(TaxRate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Winner determination
// ──────────────────────────────────────────────────────────────────────────────

// IsWinner reports whether bet wins under results. Unknown categories and
// nil results never win.
func IsWinner(bet *Bet, results *Results) bool {
	switch bet.Category {
	case CategoryWin:
		return results.Won(bet.HorseID)
	case CategoryPlace:
		return results.Placed(bet.HorseID)
	default:
		return false
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Payout
// ──────────────────────────────────────────────────────────────────────────────

// SettlementPayout computes what a bet pays once its outcome is known.
//
//	Cash,   winner: odds × amount + amount
//	Cash,   loser:  0
//	Credit, winner: odds × amount − tax
//	Credit, loser:  amount + tax
//
// where tax = amount × TaxRate. Missing odds or amount pay zero, as does an
// unknown payment type.
func SettlementPayout(t PaymentType, odds, amount Number, isWinner bool) decimal.Decimal {
	if !odds.Valid || !amount.Valid {
		return decimal.Zero
	}
	o, a := odds.Decimal, amount.Decimal
	switch t {
	case PaymentCash:
		if isWinner {
			return o.Mul(a).Add(a)
		}
		return decimal.Zero
	case PaymentCredit:
		if isWinner {
			return o.Mul(a).Sub(Tax(a))
		}
		return a.Add(Tax(a))
	default:
		return decimal.Zero
	}
}

// PreviewPayout is the payout shown while a bet is being edited: it always
// assumes the bet wins. ok is false when odds or amount are missing.
func PreviewPayout(t PaymentType, odds, amount Number) (payout decimal.Decimal, ok bool) {
	if !odds.Valid || !amount.Valid {
		return decimal.Zero, false
	}
	return SettlementPayout(t, odds, amount, true), true
}

// FormatPayout renders a payout the way it is stored on a bet.
func FormatPayout(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PreviewPayoutString is PreviewPayout formatted for storage ("" when missing).
func PreviewPayoutString(b *Bet) string {
	p, ok := PreviewPayout(b.Type, b.Odds, b.Amount)
	if !ok {
		return ""
	}
	return FormatPayout(p)
}

// ──────────────────────────────────────────────────────────────────────────────
// Settle
// ──────────────────────────────────────────────────────────────────────────────

// Settle resolves bets against results and returns settled copies; the input
// slice is not modified. Settling an already settled set with the same
// results yields the same output.
func Settle(bets []Bet, results *Results) []Bet {
	out := make([]Bet, len(bets))
	for i, b := range bets {
		won := IsWinner(&b, results)
		b.IsWinner = won
		b.Settled = true
		b.Payout = FormatPayout(SettlementPayout(b.Type, b.Odds, b.Amount, won))
		out[i] = b
	}
	return out
}
