// Package ws holds WebSocket message types and the Hub implementation.
// messages.go defines all message structs broadcast to connected clients.
package ws

import (
	"time"

	"github.com/evetabi/raceledger/internal/domain"
)

// MsgType identifies the kind of WS message so clients can switch on it.
type MsgType string

const (
	MsgTypeLedgerChanged MsgType = "ledger_changed"
	MsgTypeRaceSettled   MsgType = "race_settled"
	MsgTypeSummary       MsgType = "summary"
	MsgTypeError         MsgType = "error"
)

// ──────────────────────────────────────────────────────────────────────────────
// LedgerChangedMessage: broadcast after any race, horse or bet mutation.
// ──────────────────────────────────────────────────────────────────────────────

// LedgerChangedMessage tells clients to re-read a resource.
type LedgerChangedMessage struct {
	Type      MsgType   `json:"type"`
	Resource  string    `json:"resource"` // races | horses | bets
	RaceID    int       `json:"raceId"`
	Timestamp time.Time `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// RaceSettledMessage: broadcast when a race is settled.
// ──────────────────────────────────────────────────────────────────────────────

// RaceSettledMessage carries the result and every settled bet of the race.
type RaceSettledMessage struct {
	Type      MsgType        `json:"type"`
	Race      domain.Race    `json:"race"`
	Bets      []domain.Bet   `json:"bets"`
	Summary   domain.Summary `json:"summary"`
	Timestamp time.Time      `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// SummaryMessage: pushed periodically by the scheduler.
// ──────────────────────────────────────────────────────────────────────────────

// SummaryMessage carries the running totals of the current race.
type SummaryMessage struct {
	Type      MsgType        `json:"type"`
	RaceID    int            `json:"raceId"` // 0 when there is no current race
	Summary   domain.Summary `json:"summary"`
	Timestamp time.Time      `json:"timestamp"`
}

// ──────────────────────────────────────────────────────────────────────────────
// ErrorMessage: sent to a single client on a non-fatal error.
// ──────────────────────────────────────────────────────────────────────────────

// ErrorMessage is sent directly to one client (not broadcast).
type ErrorMessage struct {
	Type    MsgType `json:"type"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
}
