package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the derived ledger report. It is recomputed on demand.
type Summary struct {
	TotalBets    decimal.Decimal `json:"totalBets"`
	TotalTax     decimal.Decimal `json:"totalTax"`
	TotalPayout  decimal.Decimal `json:"totalPayout"` // settled bets only
	BetCount     int             `json:"betCount"`
	SettledCount int             `json:"settledCount"`
}

// Total sums bet amounts, counting blank amounts as zero.
func Total(bets []Bet) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bets {
		total = total.Add(b.Amount.Or(decimal.Zero))
	}
	return total
}

// Summarize builds a Summary over bets.
func Summarize(bets []Bet) Summary {
	total := Total(bets)
	s := Summary{
		TotalBets:   total,
		TotalTax:    Tax(total),
		TotalPayout: decimal.Zero,
		BetCount:    len(bets),
	}
	for _, b := range bets {
		if !b.Settled {
			continue
		}
		s.SettledCount++
		s.TotalPayout = s.TotalPayout.Add(b.PayoutValue())
	}
	return s
}

// Session is the local single-operator session stub.
type Session struct {
	UserID    string    `json:"userId"`
	StartTime time.Time `json:"startTime"`
}
