package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/match"
	"github.com/okian/matchday/internal/domain/state"
	"github.com/okian/matchday/pkg/logger"
)

func openDB(t *testing.T) *repository.DB {
	t.Helper()
	db, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "data", "matchday.db"),
		repository.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func record(id string, home, away int, at time.Time) repository.MatchRecord {
	return repository.MatchRecord{
		ID:        id,
		RequestID: "req-" + id,
		HomeTeam:  "Brann",
		AwayTeam:  "Molde",
		HomeScore: home,
		AwayScore: away,
		Source:    "api",
		Result: match.MatchResult{
			Events: []match.MatchEvent{
				{ID: "event-1", Type: match.EventHalfTime, Minute: 45, Team: match.Home, Description: "Half Time"},
			},
			FinalState: match.MatchState{Minute: 90, HomeScore: home, AwayScore: away, Phase: match.PhaseFullTime},
			Statistics: match.Statistics{Possession: match.Pair{Home: 55, Away: 45}},
		},
		CreatedAt: at,
	}
}

func TestMatchStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMatchStore(openDB(t))
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and get round trip", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record("m1", 2, 1, base)))

		got, err := store.Get(ctx, "m1")
		require.NoError(t, err)
		require.Equal(t, "Brann", got.HomeTeam)
		require.Equal(t, 2, got.HomeScore)
		require.Equal(t, "req-m1", got.RequestID)
		require.Len(t, got.Result.Events, 1)
		require.Equal(t, match.EventHalfTime, got.Result.Events[0].Type)
		require.Equal(t, 55, got.Result.Statistics.Possession.Home)
		require.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		err := store.Save(ctx, record("m1", 0, 0, base))
		require.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("missing match", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list is newest first and paged", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record("m2", 0, 0, base.Add(time.Hour))))
		require.NoError(t, store.Save(ctx, record("m3", 1, 3, base.Add(2*time.Hour))))

		page, err := store.List(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		require.Equal(t, "m3", page[0].ID)
		require.Equal(t, "m2", page[1].ID)

		rest, err := store.List(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		require.Equal(t, "m1", rest[0].ID)

		n, err := store.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, n)
	})

	t.Run("invalid limits", func(t *testing.T) {
		_, err := store.List(ctx, 0, 0)
		require.ErrorIs(t, err, repository.ErrInvalidLimit)
		_, err = store.List(ctx, repository.MaxListLimit+1, 0)
		require.ErrorIs(t, err, repository.ErrInvalidLimit)
	})
}

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewKVStore(openDB(t))

	t.Run("missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		require.ErrorIs(t, err, repository.ErrNotFound)

		v, ok, err := kv.Load(ctx, "absent")
		require.NoError(t, err)
		require.False(t, ok)
		require.Nil(t, v)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "k", []byte("one")))
		require.NoError(t, kv.Put(ctx, "k", []byte("two")))

		v, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "two", string(v))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, kv.Delete(ctx, "k"))
		_, err := kv.Get(ctx, "k")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("backs a persisted state manager", func(t *testing.T) {
		type counter struct{ N int }
		m := state.New(counter{}, state.WithPersistence(kv, "counter"))
		m.Update(func(c *counter) { c.N = 7 })

		again := state.New(counter{}, state.WithPersistence(kv, "counter"))
		require.Equal(t, 7, again.State().N)
	})
}

func TestOpenInMemory(t *testing.T) {
	db, err := repository.Open(context.Background(), ":memory:", repository.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	defer db.Close()

	store := repository.NewMatchStore(db)
	require.NoError(t, store.Save(context.Background(), record("mem", 1, 0, time.Now())))
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
