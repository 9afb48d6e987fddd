package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/service"
)

// TestConcurrentPlaceBet simulates 50 goroutines booking bets on the same
// race at once. Every bet must land exactly once and the totals must add up.
// Run with -race to check the book lock.
func TestConcurrentPlaceBet(t *testing.T) {
	const workers = 50
	const stakeEach = 10

	ctx := context.Background()
	book := newBook(newGateway())
	if _, err := book.AddRace(ctx, domain.RaceSpec{}); err != nil {
		t.Fatalf("add race: %v", err)
	}
	horse, err := book.AddHorse(ctx, domain.HorseSpec{Name: "Frankel"})
	if err != nil {
		t.Fatalf("add horse: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := book.PlaceBet(ctx, service.PlaceBetRequest{
				HorseID:  horse.ID,
				Category: domain.CategoryWin,
				Customer: fmt.Sprintf("punter-%d", id),
				Odds:     domain.ParseNumber("2"),
				Amount:   domain.ParseNumber(fmt.Sprint(stakeEach)),
			})
			if err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("place bet: %v", err)
	}

	s := book.Summary()
	if s.BetCount != workers {
		t.Errorf("expected %d bets, got %d", workers, s.BetCount)
	}
	if got, want := s.TotalBets.String(), fmt.Sprint(workers*stakeEach); got != want {
		t.Errorf("total bets: want %s, got %s", want, got)
	}
}

// TestConcurrentSettleAndEdit races a settlement pass against edits of the
// same bets. Each edit either lands before settlement or is rejected with
// ErrBetSettled; none may slip in after a bet is settled.
func TestConcurrentSettleAndEdit(t *testing.T) {
	const bets = 20

	ctx := context.Background()
	book := newBook(newGateway())
	settler := service.NewSettlementService(book, quietLogger())
	if _, err := book.AddRace(ctx, domain.RaceSpec{}); err != nil {
		t.Fatalf("add race: %v", err)
	}
	horse, _ := book.AddHorse(ctx, domain.HorseSpec{Name: "Sea The Stars"})

	ids := make([]string, 0, bets)
	for i := 0; i < bets; i++ {
		b, err := book.PlaceBet(ctx, service.PlaceBetRequest{
			HorseID:  horse.ID,
			Category: domain.CategoryWin,
			Odds:     domain.ParseNumber("1"),
			Amount:   domain.ParseNumber("10"),
		})
		if err != nil {
			t.Fatalf("place bet: %v", err)
		}
		ids = append(ids, b.ID)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := settler.SettleRace(ctx, 1, domain.Results{First: horse.ID}); err != nil {
			t.Errorf("settle: %v", err)
		}
	}()
	amount := domain.ParseNumber("20")
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := book.UpdateBet(ctx, id, domain.BetEdit{Amount: &amount})
			if err != nil && !domain.IsConflict(err) {
				t.Errorf("update %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	settled, _ := book.BetsForRace(1)
	for _, b := range settled {
		if !b.Settled {
			t.Fatalf("bet %s not settled", b.ID)
		}
		// 1 × amount + amount
		want := domain.FormatPayout(b.Amount.Decimal.Mul(domain.ParseNumber("2").Decimal))
		if b.Payout != want {
			t.Errorf("bet %s: payout %s does not match its amount %s", b.ID, b.Payout, b.Amount)
		}
	}
}
