// Package repository holds the in-memory registries for races, horses and
// bets. Each registry owns its slice, is not safe for concurrent use, and
// writes a full snapshot through a Gateway after every mutation.
package repository

import "context"

// Gateway is the fail-soft snapshot store the registries persist through.
// Implemented by storage.Gateway.
type Gateway interface {
	Put(ctx context.Context, key string, v any)
	Get(ctx context.Context, key string, dst any) bool
	Delete(ctx context.Context, key string)
}
