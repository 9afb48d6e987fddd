package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/evetabi/raceledger/internal/metrics"
)

// Gateway is the fail-soft front of a Store. It encodes values as JSON and
// never returns an error: failures are logged and counted, and the caller
// carries on with its in-memory state. A read of a missing key and a read of
// a corrupt value look the same to the caller.
type Gateway struct {
	store   Store
	logger  *slog.Logger
	timeout time.Duration
}

// NewGateway wraps store. A zero timeout leaves the caller's context as is.
func NewGateway(store Store, logger *slog.Logger, timeout time.Duration) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, logger: logger, timeout: timeout}
}

// Put encodes v and writes it under key.
func (g *Gateway) Put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		g.fail("encode", key, err)
		return
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	if err := g.store.Put(ctx, key, data); err != nil {
		g.fail("put", key, err)
	}
}

// Get decodes the value under key into dst and reports whether it did.
// dst must be a pointer; on false its contents are unspecified, so callers
// decode into a fresh variable.
func (g *Gateway) Get(ctx context.Context, key string, dst any) bool {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	data, err := g.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.fail("get", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		g.fail("decode", key, err)
		return false
	}
	return true
}

// Delete removes key.
func (g *Gateway) Delete(ctx context.Context, key string) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	if err := g.store.Delete(ctx, key); err != nil {
		g.fail("delete", key, err)
	}
}

// Close closes the underlying store.
func (g *Gateway) Close() error {
	return g.store.Close()
}

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

func (g *Gateway) fail(op, key string, err error) {
	metrics.StorageFailures.WithLabelValues(op).Inc()
	g.logger.Error("storage operation failed", "op", op, "key", key, "err", err)
}
