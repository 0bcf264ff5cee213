// Package snapshot persists fused load cycles so a restarted server can
// answer queries before its first live cycle completes.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/dazca/municat/internal/fusion"
)

// Store writes and reads fused cycles from a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at the given path and
// configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "snapshot: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS cycles (
	id        TEXT PRIMARY KEY,
	loaded_at DATETIME NOT NULL,
	result    TEXT NOT NULL,
	saved_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_cycles_loaded_at ON cycles(loaded_at);
`

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "snapshot: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists one fused cycle. Cycles are append-only; Prune trims old
// ones.
func (s *Store) Save(ctx context.Context, result *fusion.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "snapshot: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cycles (id, loaded_at, result) VALUES (?, ?, ?)`,
		result.CycleID.String(), result.LoadedAt.UTC(), string(payload),
	)
	if err != nil {
		return eris.Wrapf(err, "snapshot: insert cycle %s", result.CycleID)
	}
	return nil
}

// Latest returns the most recently loaded cycle, or (nil, nil) when the
// store is empty.
func (s *Store) Latest(ctx context.Context) (*fusion.Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result FROM cycles ORDER BY loaded_at DESC LIMIT 1`,
	)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "snapshot: query latest")
	}

	var result fusion.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, eris.Wrap(err, "snapshot: unmarshal result")
	}
	return &result, nil
}

// Prune deletes cycles older than the cutoff, keeping at least the most
// recent one regardless of age.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cycles WHERE loaded_at < ?
		 AND id != (SELECT id FROM cycles ORDER BY loaded_at DESC LIMIT 1)`,
		cutoff,
	)
	if err != nil {
		return 0, eris.Wrap(err, "snapshot: prune")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "snapshot: prune rows affected")
	}
	return n, nil
}
