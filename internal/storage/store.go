// Package storage is the persistence gateway: a key → JSON snapshot store with
// interchangeable backends and a fail-soft front door used by the registries.
package storage

import (
	"context"
	"errors"
)

// Snapshot keys written by the ledger.
const (
	KeySession       = "currentSession"
	KeyRaces         = "races"
	KeyHorses        = "horses"
	KeyBets          = "bets"
	KeyCurrentRaceID = "currentRaceId"
)

// ErrNotFound is returned by a Store when a key has never been written or
// was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is a raw snapshot backend. Implementations report every failure;
// Gateway decides what to swallow.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
