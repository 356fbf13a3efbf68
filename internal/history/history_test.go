package history

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(t *testing.T) (*Store, *fixedClock) {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewStore(db.Connection(), WithClock(clock)), clock
}

func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0700), info.Mode().Perm())
	}
}

func TestNewDB_AppliesMigrations(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.Connection().QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version))
	require.Equal(t, 2, version)

	var name string
	require.NoError(t, db.Connection().QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='comparisons'`).Scan(&name))
	require.Equal(t, "comparisons", name)
}

func TestNewDB_ReopenIsIdempotentAndBacksUp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.Store().Record(context.Background(), Entry{LeftName: "a", RightName: "b"})
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	var migrations int
	require.NoError(t, db2.Connection().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&migrations))
	require.Equal(t, 2, migrations)

	entries, err := db2.Store().List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := os.Stat(dbPath + ".bak")
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestNewDB_Pragmas(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	var journal string
	require.NoError(t, db.Connection().QueryRow("PRAGMA journal_mode").Scan(&journal))
	require.Equal(t, "wal", journal)

	var busy int
	require.NoError(t, db.Connection().QueryRow("PRAGMA busy_timeout").Scan(&busy))
	require.Equal(t, 5000, busy)
}

func TestStore_RecordAssignsIDAndTimestamps(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	e, err := store.Record(ctx, Entry{
		LeftPath: "/src/old.txt", RightPath: "/src/new.txt",
		LeftName: "old.txt", RightName: "new.txt",
		Modified: 1, Changed: 1, Watched: true,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(e.ID)
	require.NoError(t, err)
	require.True(t, e.ClosedAt.Equal(clock.now))
	require.True(t, e.OpenedAt.Equal(clock.now))

	got, err := store.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "old.txt", got.LeftName)
	require.Equal(t, 1, got.Modified)
	require.True(t, got.Watched)
	require.False(t, got.Failed)
	require.True(t, got.ClosedAt.Equal(clock.now))
}

func TestStore_RecordRequiresNames(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Record(context.Background(), Entry{LeftName: "a"})
	require.Error(t, err)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LatestSkipsStdin(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	_, err := store.Latest(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	first, err := store.Record(ctx, Entry{LeftPath: "/a", RightPath: "/b", LeftName: "a", RightName: "b"})
	require.NoError(t, err)

	clock.advance(time.Minute)
	_, err = store.Record(ctx, Entry{RightPath: "/b", LeftName: "stdin", RightName: "b"})
	require.NoError(t, err)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, latest.ID)
	require.True(t, latest.Reopenable())
}

func TestStore_ListNewestFirstWithLimit(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		_, err := store.Record(ctx, Entry{LeftName: name, RightName: name})
		require.NoError(t, err)
		clock.advance(time.Hour)
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "three", all[0].LeftName)
	require.Equal(t, "one", all[2].LeftName)

	two, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	require.Equal(t, "two", two[1].LeftName)
}

func TestStore_DeleteAndPrune(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for range 4 {
		e, err := store.Record(ctx, Entry{LeftName: "l", RightName: "r"})
		require.NoError(t, err)
		ids = append(ids, e.ID)
		clock.advance(time.Second)
	}

	require.NoError(t, store.Delete(ctx, ids[0]))
	require.ErrorIs(t, store.Delete(ctx, ids[0]), ErrNotFound)

	n, err := store.Prune(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	left, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, ids[3], left[0].ID)
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{-time.Hour, "now"},
		{30 * time.Second, "now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{8 * 24 * time.Hour, "1w ago"},
		{95 * 24 * time.Hour, "3mo ago"},
		{400 * 24 * time.Hour, "1y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatRelative(now.Add(-tt.ago), now))
		})
	}
}
