package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/panediff/internal/log"
)

// ErrNotFound is returned when no matching comparison exists.
var ErrNotFound = errors.New("comparison not found")

// Entry is one recorded comparison.
type Entry struct {
	ID        string
	LeftPath  string // empty for stdin
	RightPath string
	LeftName  string
	RightName string

	Inserted int
	Deleted  int
	Modified int
	Changed  int // size of the changed-line index
	Failed   bool
	Watched  bool

	OpenedAt time.Time
	ClosedAt time.Time
}

// Reopenable reports whether both sides came from files.
func (e Entry) Reopenable() bool {
	return e.LeftPath != "" && e.RightPath != ""
}

const entryColumns = `id, left_path, right_path, left_name, right_name,
	inserted, deleted, modified, changed, failed, watched, opened_at, closed_at`

// Store reads and writes comparison entries.
type Store struct {
	db    *sql.DB
	clock Clock
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(c Clock) StoreOption {
	return func(s *Store) { s.clock = c }
}

// NewStore creates a store over an already migrated database.
func NewStore(db *sql.DB, opts ...StoreOption) *Store {
	s := &Store{db: db, clock: RealClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record inserts e, assigning an ID when empty and timestamps when zero.
// It returns the stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.LeftName == "" || e.RightName == "" {
		return Entry{}, errors.New("record comparison: display names are required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := s.clock.Now()
	if e.ClosedAt.IsZero() {
		e.ClosedAt = now
	}
	if e.OpenedAt.IsZero() {
		e.OpenedAt = e.ClosedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comparisons (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.LeftPath, e.RightPath, e.LeftName, e.RightName,
		e.Inserted, e.Deleted, e.Modified, e.Changed, e.Failed, e.Watched,
		e.OpenedAt.UnixMilli(), e.ClosedAt.UnixMilli(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record comparison: %w", err)
	}
	log.Debug(log.CatHistory, "recorded comparison", "id", e.ID, "left", e.LeftName, "right", e.RightName)
	return e, nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM comparisons WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get comparison %s: %w", id, err)
	}
	return e, nil
}

// Latest returns the most recently closed entry that can be reopened.
func (s *Store) Latest(ctx context.Context) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM comparisons
		WHERE left_path != '' AND right_path != ''
		ORDER BY closed_at DESC, rowid DESC LIMIT 1`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("latest comparison: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM comparisons ORDER BY closed_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list comparisons: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	return entries, nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comparison %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comparison %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune keeps the newest keep entries and deletes the rest. It returns the
// number of deleted rows.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM comparisons WHERE id NOT IN (
			SELECT id FROM comparisons ORDER BY closed_at DESC, rowid DESC LIMIT ?
		)`, max(0, keep))
	if err != nil {
		return 0, fmt.Errorf("prune comparisons: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune comparisons: %w", err)
	}
	if n > 0 {
		log.Debug(log.CatHistory, "pruned comparisons", "deleted", n, "kept", keep)
	}
	return int(n), nil
}

func scanEntry(scanner interface{ Scan(...any) error }) (Entry, error) {
	var (
		e                  Entry
		openedAt, closedAt int64
	)
	err := scanner.Scan(
		&e.ID, &e.LeftPath, &e.RightPath, &e.LeftName, &e.RightName,
		&e.Inserted, &e.Deleted, &e.Modified, &e.Changed, &e.Failed, &e.Watched,
		&openedAt, &closedAt,
	)
	if err != nil {
		return Entry{}, err
	}
	e.OpenedAt = time.UnixMilli(openedAt)
	e.ClosedAt = time.UnixMilli(closedAt)
	return e, nil
}
