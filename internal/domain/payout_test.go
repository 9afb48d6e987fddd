package domain_test

import (
	"testing"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/shopspring/decimal"
)

func num(s string) domain.Number { return domain.ParseNumber(s) }

// TestSettlementPayout_Table checks every (type, outcome) cell of the payout
// table against hand-computed values.
//
//	Cash   2.5 × 10 + 10          = 35.00
//	Credit 3 × 20 − (20 × 0.15)   = 57.00
//	Credit loser 20 + (20 × 0.15) = 23.00
func TestSettlementPayout_Table(t *testing.T) {
	cases := []struct {
		name   string
		typ    domain.PaymentType
		odds   string
		amount string
		winner bool
		want   string
	}{
		{"cash winner", domain.PaymentCash, "2.5", "10", true, "35.00"},
		{"cash loser", domain.PaymentCash, "2.5", "10", false, "0.00"},
		{"credit winner", domain.PaymentCredit, "3", "20", true, "57.00"},
		{"credit loser", domain.PaymentCredit, "3", "20", false, "23.00"},
		{"zero odds cash winner", domain.PaymentCash, "0", "10", true, "10.00"},
		{"blank odds", domain.PaymentCash, "", "10", true, "0.00"},
		{"garbage amount", domain.PaymentCredit, "3", "abc", false, "0.00"},
		{"unknown type", domain.PaymentType("Voucher"), "3", "20", true, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.SettlementPayout(tc.typ, num(tc.odds), num(tc.amount), tc.winner)
			if domain.FormatPayout(got) != tc.want {
				t.Errorf("payout = %s, want %s", domain.FormatPayout(got), tc.want)
			}
		})
	}
}

func TestTax(t *testing.T) {
	got := domain.Tax(decimal.NewFromInt(20))
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Tax(20) = %s, want 3", got)
	}
	if !domain.Tax(decimal.Zero).IsZero() {
		t.Error("Tax(0) should be zero")
	}
}

func TestPreviewPayout_AssumesWinner(t *testing.T) {
	p, ok := domain.PreviewPayout(domain.PaymentCredit, num("3"), num("20"))
	if !ok {
		t.Fatal("expected a preview for numeric odds and amount")
	}
	if domain.FormatPayout(p) != "57.00" {
		t.Errorf("credit preview = %s, want 57.00", domain.FormatPayout(p))
	}

	if _, ok := domain.PreviewPayout(domain.PaymentCash, num(""), num("20")); ok {
		t.Error("blank odds should not produce a preview")
	}

	b := &domain.Bet{Type: domain.PaymentCash, Odds: num("4"), Amount: num("NaN")}
	if got := domain.PreviewPayoutString(b); got != "" {
		t.Errorf("preview with NaN amount = %q, want empty", got)
	}
}

// ── Winner determination ──────────────────────────────────────────────────────

func TestIsWinner_Win(t *testing.T) {
	r := &domain.Results{First: 3, Second: 1, Third: 2}
	for horse := 1; horse <= 5; horse++ {
		b := &domain.Bet{HorseID: horse, Category: domain.CategoryWin}
		want := horse == 3
		if got := domain.IsWinner(b, r); got != want {
			t.Errorf("win bet on horse %d: winner = %v, want %v", horse, got, want)
		}
	}
}

func TestIsWinner_Place(t *testing.T) {
	r := &domain.Results{First: 3, Second: 1, Third: 2}
	for horse := 1; horse <= 5; horse++ {
		b := &domain.Bet{HorseID: horse, Category: domain.CategoryPlace}
		want := horse <= 3
		if got := domain.IsWinner(b, r); got != want {
			t.Errorf("place bet on horse %d: winner = %v, want %v", horse, got, want)
		}
	}
}

func TestIsWinner_DuplicatePlacegetters(t *testing.T) {
	r := &domain.Results{First: 4, Second: 4, Third: 0}
	b := &domain.Bet{HorseID: 4, Category: domain.CategoryPlace}
	if !domain.IsWinner(b, r) {
		t.Error("horse listed twice should still place")
	}
	other := &domain.Bet{HorseID: 5, Category: domain.CategoryPlace}
	if domain.IsWinner(other, r) {
		t.Error("unplaced horse should not win")
	}
}

func TestIsWinner_NoResultsOrUnknownCategory(t *testing.T) {
	b := &domain.Bet{HorseID: 1, Category: domain.CategoryWin}
	if domain.IsWinner(b, nil) {
		t.Error("nil results must never win")
	}
	odd := &domain.Bet{HorseID: 1, Category: domain.Category("each-way")}
	if domain.IsWinner(odd, &domain.Results{First: 1}) {
		t.Error("unknown category must never win")
	}
	unset := &domain.Bet{HorseID: 0, Category: domain.CategoryWin}
	if domain.IsWinner(unset, &domain.Results{}) {
		t.Error("empty results must not match a zero horse id")
	}
}

// ── Settle ────────────────────────────────────────────────────────────────────

func sampleBets() []domain.Bet {
	return []domain.Bet{
		{ID: "a", HorseID: 1, Category: domain.CategoryWin, Type: domain.PaymentCash, Odds: num("2.5"), Amount: num("10")},
		{ID: "b", HorseID: 2, Category: domain.CategoryWin, Type: domain.PaymentCredit, Odds: num("3"), Amount: num("20")},
		{ID: "c", HorseID: 2, Category: domain.CategoryPlace, Type: domain.PaymentCredit, Odds: num("3"), Amount: num("20")},
		{ID: "d", HorseID: 9, Category: domain.CategoryPlace, Type: domain.PaymentCash, Odds: num(""), Amount: num("")},
	}
}

func TestSettle(t *testing.T) {
	r := &domain.Results{First: 1, Second: 2, Third: 3}
	got := domain.Settle(sampleBets(), r)

	want := map[string]struct {
		winner bool
		payout string
	}{
		"a": {true, "35.00"},
		"b": {false, "23.00"},
		"c": {true, "57.00"},
		"d": {false, "0.00"},
	}
	for _, b := range got {
		w := want[b.ID]
		if !b.Settled {
			t.Errorf("bet %s not marked settled", b.ID)
		}
		if b.IsWinner != w.winner || b.Payout != w.payout {
			t.Errorf("bet %s = (winner %v, payout %s), want (%v, %s)",
				b.ID, b.IsWinner, b.Payout, w.winner, w.payout)
		}
	}
}

func TestSettle_DoesNotMutateInput(t *testing.T) {
	in := sampleBets()
	_ = domain.Settle(in, &domain.Results{First: 1})
	for _, b := range in {
		if b.Settled || b.Payout != "" {
			t.Fatalf("input bet %s was mutated: %+v", b.ID, b)
		}
	}
}

func TestSettle_Idempotent(t *testing.T) {
	r := &domain.Results{First: 2, Second: 9, Third: 1}
	once := domain.Settle(sampleBets(), r)
	twice := domain.Settle(once, r)
	for i := range once {
		if once[i].Payout != twice[i].Payout || once[i].IsWinner != twice[i].IsWinner {
			t.Errorf("bet %s changed on re-settle: %+v -> %+v", once[i].ID, once[i], twice[i])
		}
	}
}

func TestSettle_RerunOverwrites(t *testing.T) {
	first := domain.Settle(sampleBets(), &domain.Results{First: 1})
	second := domain.Settle(first, &domain.Results{First: 2})
	if second[0].IsWinner || second[0].Payout != "0.00" {
		t.Errorf("bet a should lose after re-settle, got %+v", second[0])
	}
	if !second[1].IsWinner || second[1].Payout != "57.00" {
		t.Errorf("bet b should win after re-settle, got %+v", second[1])
	}
}
