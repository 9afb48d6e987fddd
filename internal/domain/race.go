// Package domain defines the core entities and pure rules of the bookmaker
// race ledger: races, horses, bets, tax and settlement.
package domain

import "fmt"

// ──────────────────────────────────────────────────────────────────────────────
// Race
// ──────────────────────────────────────────────────────────────────────────────

// Race is a single race on the card. IDs are small integers assigned by the
// race registry.
type Race struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Ended   bool     `json:"ended"`
	Results *Results `json:"results,omitempty"` // set when the race is settled
}

// RaceSpec carries the optional inputs for creating a race.
// A zero ID asks the registry to assign the next one.
type RaceSpec struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DefaultRaceName is the name given to a race created without one.
func DefaultRaceName(id int) string {
	return fmt.Sprintf("Race %d", id)
}

// ──────────────────────────────────────────────────────────────────────────────
// Results
// ──────────────────────────────────────────────────────────────────────────────

// Results holds the horse ids that finished first, second and third.
// A zero id means that position was not recorded.
type Results struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
}

// Won reports whether horseID finished first.
func (r *Results) Won(horseID int) bool {
	if r == nil || horseID == 0 {
		return false
	}
	return r.First == horseID
}

// Placed reports whether horseID finished in the first three.
// Duplicate ids across positions are tolerated.
func (r *Results) Placed(horseID int) bool {
	if r == nil || horseID == 0 {
		return false
	}
	return r.First == horseID || r.Second == horseID || r.Third == horseID
}

// HorseIDs returns the non-zero placegetter ids in finishing order.
func (r *Results) HorseIDs() []int {
	if r == nil {
		return nil
	}
	ids := make([]int, 0, 3)
	for _, id := range []int{r.First, r.Second, r.Third} {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// ──────────────────────────────────────────────────────────────────────────────
// Horse
// ──────────────────────────────────────────────────────────────────────────────

// Horse is a runner in exactly one race. RaceID zero marks a legacy record
// that has not been scoped yet.
type Horse struct {
	ID     int    `json:"id"`
	RaceID int    `json:"raceId"`
	Name   string `json:"name"`
}

// HorseSpec carries the inputs for creating a horse. A zero RaceID means
// "the current race".
type HorseSpec struct {
	RaceID int    `json:"raceId"`
	Name   string `json:"name"`
}
