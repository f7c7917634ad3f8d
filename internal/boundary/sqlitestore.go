package boundary

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps memoized boundary sets in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and if needed creates) the cache database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open boundary cache %s: %w", path, err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS sentence_boundaries (
		hash TEXT PRIMARY KEY,
		starts TEXT NOT NULL,
		ends TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create boundary cache table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// LoadAll reads every stored set.
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hash, starts, ends FROM sentence_boundaries`)
	if err != nil {
		return nil, fmt.Errorf("query boundary cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]Set)
	for rows.Next() {
		var hash, startsJSON, endsJSON string
		if err := rows.Scan(&hash, &startsJSON, &endsJSON); err != nil {
			return nil, fmt.Errorf("scan boundary cache row: %w", err)
		}
		var starts, ends []int
		if err := json.Unmarshal([]byte(startsJSON), &starts); err != nil {
			return nil, fmt.Errorf("decode starts for %s: %w", hash, err)
		}
		if err := json.Unmarshal([]byte(endsJSON), &ends); err != nil {
			return nil, fmt.Errorf("decode ends for %s: %w", hash, err)
		}
		entries[hash] = NewSet(starts, ends)
	}
	return entries, rows.Err()
}

// Save inserts entries in one transaction. Existing hashes are kept.
func (s *SQLiteStore) Save(ctx context.Context, entries map[string]Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin boundary cache tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO sentence_boundaries (hash, starts, ends, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare boundary cache insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for hash, set := range entries {
		starts, ends := set.Sorted()
		startsJSON, err := json.Marshal(starts)
		if err != nil {
			return err
		}
		endsJSON, err := json.Marshal(ends)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, hash, string(startsJSON), string(endsJSON), now); err != nil {
			return fmt.Errorf("insert boundary cache row: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
