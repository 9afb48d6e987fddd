package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/evetabi/raceledger/internal/config"
	"github.com/evetabi/raceledger/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exerciseStore runs the same put/get/delete script against any backend.
func exerciseStore(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Put(ctx, storage.KeyRaces, []byte(`[{"id":1}]`)))
	got, err := s.Get(ctx, storage.KeyRaces)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	require.NoError(t, s.Put(ctx, storage.KeyRaces, []byte(`[{"id":2}]`)))
	got, err = s.Get(ctx, storage.KeyRaces)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, string(got), "second put replaces the first")

	require.NoError(t, s.Delete(ctx, storage.KeyRaces))
	_, err = s.Get(ctx, storage.KeyRaces)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "never-written"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, storage.NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := storage.NewMemoryStore()
	buf := []byte(`"a"`)
	require.NoError(t, s.Put(context.Background(), "k", buf))
	buf[1] = 'b'
	got, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(got))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	s, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	s, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, storage.KeyCurrentRaceID, []byte(`3`)))
	require.NoError(t, s.Close())

	s, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, storage.KeyCurrentRaceID)
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))
}

func TestOpen(t *testing.T) {
	s, err := storage.Open(context.Background(), config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s)

	_, err = storage.Open(context.Background(), config.StorageConfig{Driver: "etcd"})
	assert.Error(t, err)
}

// ── Gateway ───────────────────────────────────────────────────────────────────

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, []byte) error { return errors.New("quota exceeded") }
func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("read only") }
func (brokenStore) Close() error                         { return nil }

func TestGateway_RoundTrip(t *testing.T) {
	g := storage.NewGateway(storage.NewMemoryStore(), quietLogger(), time.Second)
	ctx := context.Background()

	type row struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	g.Put(ctx, storage.KeyHorses, []row{{1, "Seabiscuit"}})

	var out []row
	require.True(t, g.Get(ctx, storage.KeyHorses, &out))
	assert.Equal(t, []row{{1, "Seabiscuit"}}, out)

	g.Delete(ctx, storage.KeyHorses)
	var again []row
	assert.False(t, g.Get(ctx, storage.KeyHorses, &again))
}

func TestGateway_FailsSoft(t *testing.T) {
	g := storage.NewGateway(brokenStore{}, quietLogger(), 0)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		g.Put(ctx, storage.KeyBets, []int{1})
		g.Delete(ctx, storage.KeyBets)
	})
	var out []int
	assert.False(t, g.Get(ctx, storage.KeyBets, &out))
}

func TestGateway_UnencodableValue(t *testing.T) {
	mem := storage.NewMemoryStore()
	g := storage.NewGateway(mem, quietLogger(), 0)
	g.Put(context.Background(), "chan", make(chan int))

	_, err := mem.Get(context.Background(), "chan")
	assert.ErrorIs(t, err, storage.ErrNotFound, "nothing is written when encoding fails")
}

func TestGateway_CorruptValueReadsAsMiss(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Put(context.Background(), storage.KeyRaces, []byte(`{not json`)))
	g := storage.NewGateway(mem, quietLogger(), 0)

	var races []map[string]any
	assert.False(t, g.Get(context.Background(), storage.KeyRaces, &races))
}

func TestGateway_RedisUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	g := storage.NewGateway(storage.NewRedisStore(rdb, "test:"), quietLogger(), 200*time.Millisecond)
	defer g.Close()

	ctx := context.Background()
	g.Put(ctx, storage.KeyRaces, []int{1})
	var out []int
	assert.False(t, g.Get(ctx, storage.KeyRaces, &out))
}
