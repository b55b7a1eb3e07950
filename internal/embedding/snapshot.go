package embedding

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SnapshotStore persists cache entries to a SQLite file so embeddings
// survive across process runs. The engine itself never touches it; the
// surrounding system (CLI, server) decides when to save and load.
type SnapshotStore struct {
	db *sql.DB
}

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
	issue_id     TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	vector       TEXT NOT NULL,
	inserted_at  INTEGER NOT NULL,
	expires_at   INTEGER NOT NULL
);
`

// OpenSnapshotStore opens (creating if needed) a snapshot database at path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping snapshot database: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save writes every cache entry to the snapshot, replacing previous rows
// for the same issues.
func (s *SnapshotStore) Save(cache *Cache) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO embeddings (issue_id, content_hash, vector, inserted_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(issue_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			vector       = excluded.vector,
			inserted_at  = excluded.inserted_at,
			expires_at   = excluded.expires_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for issueID, e := range cache.entries {
		vecJSON, err := json.Marshal(e.vector)
		if err != nil {
			return fmt.Errorf("failed to encode vector for %s: %w", issueID, err)
		}
		if _, err := stmt.Exec(issueID, e.contentHash, string(vecJSON),
			e.insertedAt.Unix(), e.expiresAt.Unix()); err != nil {
			return fmt.Errorf("failed to write snapshot row for %s: %w", issueID, err)
		}
	}

	return tx.Commit()
}

// Load reads snapshot rows into the cache, skipping entries that have
// already expired. Rows that fail to decode are skipped rather than
// aborting the load; a missing vector only costs a recomputation.
func (s *SnapshotStore) Load(cache *Cache) (int, error) {
	rows, err := s.db.Query(`SELECT issue_id, content_hash, vector, inserted_at, expires_at FROM embeddings`)
	if err != nil {
		return 0, fmt.Errorf("failed to query snapshot rows: %w", err)
	}
	defer rows.Close()

	now := cache.now()
	loaded := 0
	for rows.Next() {
		var issueID, contentHash, vecJSON string
		var insertedAt, expiresAt int64
		if err := rows.Scan(&issueID, &contentHash, &vecJSON, &insertedAt, &expiresAt); err != nil {
			return loaded, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		expiry := time.Unix(expiresAt, 0)
		if !now.Before(expiry) {
			continue
		}

		var vector []float64
		if err := json.Unmarshal([]byte(vecJSON), &vector); err != nil {
			continue
		}

		cache.entries[issueID] = entry{
			contentHash: contentHash,
			vector:      vector,
			insertedAt:  time.Unix(insertedAt, 0),
			expiresAt:   expiry,
		}
		loaded++
	}
	return loaded, rows.Err()
}
