package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/shopspring/decimal"
)

// ── Number parsing ────────────────────────────────────────────────────────────

func TestParseNumber(t *testing.T) {
	cases := map[string]bool{
		"10":      true,
		" 2.50 ":  true,
		"0":       true,
		"":        false,
		"abc":     false,
		"-1":      false,
		"NaN":     false,
		"Inf":     false,
		"1e3":     true,
		"12.3.4":  false,
		"   ":     false,
		"0000.10": true,
	}
	for in, valid := range cases {
		if got := domain.ParseNumber(in).Valid; got != valid {
			t.Errorf("ParseNumber(%q).Valid = %v, want %v", in, got, valid)
		}
	}
}

func TestNumber_JSONLenient(t *testing.T) {
	var row struct {
		A domain.Number `json:"a"`
		B domain.Number `json:"b"`
		C domain.Number `json:"c"`
		D domain.Number `json:"d"`
		E domain.Number `json:"e"`
	}
	in := `{"a": 12.5, "b": "3", "c": "", "d": null, "e": "oops"}`
	if err := json.Unmarshal([]byte(in), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !row.A.Valid || !row.A.Decimal.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("a = %+v, want 12.5", row.A)
	}
	if !row.B.Valid || !row.B.Decimal.Equal(decimal.NewFromInt(3)) {
		t.Errorf("b = %+v, want 3", row.B)
	}
	if row.C.Valid || row.D.Valid || row.E.Valid {
		t.Errorf("blank/null/garbage should be absent: c=%v d=%v e=%v", row.C.Valid, row.D.Valid, row.E.Valid)
	}
}

func TestNumber_MarshalAbsentAsNull(t *testing.T) {
	b := domain.Bet{ID: "x", Odds: domain.ParseNumber(""), Amount: domain.ParseNumber("5")}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back domain.Bet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Odds.Valid {
		t.Error("absent odds should stay absent")
	}
	if back.Amount.String() != "5" {
		t.Errorf("amount = %q, want 5", back.Amount.String())
	}
}

// ── Results & placeholders ────────────────────────────────────────────────────

func TestResults_HorseIDs(t *testing.T) {
	r := &domain.Results{First: 7, Second: 0, Third: 2}
	ids := r.HorseIDs()
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 2 {
		t.Errorf("HorseIDs() = %v, want [7 2]", ids)
	}
	var none *domain.Results
	if none.HorseIDs() != nil {
		t.Error("nil results should have no horse ids")
	}
}

func TestNewEmptyBet(t *testing.T) {
	b := domain.NewEmptyBet(4, domain.CategoryPlace, 2)
	if b.ID == "" {
		t.Fatal("placeholder needs an id")
	}
	if !b.Matches(4, domain.CategoryPlace, 2) {
		t.Errorf("placeholder scoped wrong: %+v", b)
	}
	if b.Customer != "" || b.Odds.Valid || b.Amount.Valid || b.Payout != "" || b.Settled {
		t.Errorf("placeholder should be blank: %+v", b)
	}
	other := domain.NewEmptyBet(4, domain.CategoryPlace, 2)
	if other.ID == b.ID {
		t.Error("placeholder ids should be unique")
	}
}

func TestDefaultRaceName(t *testing.T) {
	if got := domain.DefaultRaceName(3); got != "Race 3" {
		t.Errorf("DefaultRaceName(3) = %q", got)
	}
}

// ── Summary ───────────────────────────────────────────────────────────────────

func TestSummarize(t *testing.T) {
	bets := []domain.Bet{
		{Amount: domain.ParseNumber("10")},
		{Amount: domain.ParseNumber("")},
		{Amount: domain.ParseNumber("30"), Settled: true, Payout: "57.00"},
	}
	s := domain.Summarize(bets)
	if !s.TotalBets.Equal(decimal.NewFromInt(40)) {
		t.Errorf("TotalBets = %s, want 40", s.TotalBets)
	}
	if !s.TotalTax.Equal(decimal.NewFromInt(6)) {
		t.Errorf("TotalTax = %s, want 6", s.TotalTax)
	}
	if s.BetCount != 3 || s.SettledCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", s.BetCount, s.SettledCount)
	}
	if !s.TotalPayout.Equal(decimal.NewFromInt(57)) {
		t.Errorf("TotalPayout = %s, want 57", s.TotalPayout)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := domain.Summarize(nil)
	if !s.TotalBets.IsZero() || !s.TotalTax.IsZero() || s.BetCount != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

// ── Error predicates ──────────────────────────────────────────────────────────

func TestErrorPredicates(t *testing.T) {
	if !domain.IsNotFound(domain.ErrRaceNotFound) || !domain.IsNotFound(domain.ErrBetNotFound) {
		t.Error("race/bet not found should be not-found errors")
	}
	if !domain.IsValidation(domain.ErrInvalidCategory) {
		t.Error("invalid category should be a validation error")
	}
	if !domain.IsConflict(domain.ErrBetSettled) {
		t.Error("settled bet should be a conflict")
	}
	if domain.IsNotFound(domain.ErrBetSettled) {
		t.Error("settled bet is not a not-found error")
	}
}
