// Package report renders the offline end-of-day view of the ledger: one
// line per race plus the ledger-wide totals.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/evetabi/raceledger/internal/domain"
)

// Book is the read side of the ledger the report needs.
type Book interface {
	Races() []domain.Race
	CurrentRace() (domain.Race, error)
	RaceSummary(raceID int) (domain.Summary, error)
	LedgerSummary() domain.Summary
}

// RaceLine is one race row of the report.
type RaceLine struct {
	Race    domain.Race    `json:"race"`
	Current bool           `json:"current"`
	Summary domain.Summary `json:"summary"`
}

// Report is the full end-of-day view.
type Report struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Races       []RaceLine     `json:"races"`
	Ledger      domain.Summary `json:"ledger"`
}

// Build collects a Report from book. When raceID is non-zero only that race
// is listed; the ledger totals always cover every bet.
func Build(book Book, raceID int, now time.Time) (Report, error) {
	rep := Report{
		GeneratedAt: now.UTC(),
		Races:       []RaceLine{},
		Ledger:      book.LedgerSummary(),
	}

	currentID := 0
	if cur, err := book.CurrentRace(); err == nil {
		currentID = cur.ID
	}

	found := false
	for _, race := range book.Races() {
		if raceID != 0 && race.ID != raceID {
			continue
		}
		found = true
		s, err := book.RaceSummary(race.ID)
		if err != nil {
			return Report{}, fmt.Errorf("report.Build race %d: %w", race.ID, err)
		}
		rep.Races = append(rep.Races, RaceLine{Race: race, Current: race.ID == currentID, Summary: s})
	}
	if raceID != 0 && !found {
		return Report{}, fmt.Errorf("report.Build race %d: %w", raceID, domain.ErrRaceNotFound)
	}
	return rep, nil
}

// WriteText renders rep as an aligned table.
func WriteText(w io.Writer, rep Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RACE\tNAME\tSTATUS\tBETS\tSETTLED\tTOTAL\tTAX\tPAYOUT")
	for _, l := range rep.Races {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			l.Race.ID, l.Race.Name, status(l),
			l.Summary.BetCount, l.Summary.SettledCount,
			l.Summary.TotalBets.StringFixed(2),
			l.Summary.TotalTax.StringFixed(2),
			l.Summary.TotalPayout.StringFixed(2))
	}
	fmt.Fprintf(tw, "\tLEDGER\t\t%d\t%d\t%s\t%s\t%s\n",
		rep.Ledger.BetCount, rep.Ledger.SettledCount,
		rep.Ledger.TotalBets.StringFixed(2),
		rep.Ledger.TotalTax.StringFixed(2),
		rep.Ledger.TotalPayout.StringFixed(2))
	return tw.Flush()
}

// WriteJSON renders rep as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func status(l RaceLine) string {
	switch {
	case l.Race.Results != nil:
		return "settled"
	case l.Race.Ended:
		return "ended"
	case l.Current:
		return "current"
	default:
		return "open"
	}
}
