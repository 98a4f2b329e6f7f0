package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-adventure/internal/snapshot"
)

// SnapshotBackend stores encoded actor snapshots in the snapshots table.
type SnapshotBackend struct {
	db *sql.DB
}

var _ snapshot.Backend = (*SnapshotBackend)(nil)

// Snapshots returns a snapshot.Backend sharing this store's connection.
func (s *Store) Snapshots() *SnapshotBackend {
	return &SnapshotBackend{db: s.db}
}

// Read implements snapshot.Backend.
func (b *SnapshotBackend) Read(id string) ([]byte, error) {
	var data string
	err := b.db.QueryRow("SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read snapshot %s: %w", id, err)
	}
	return []byte(data), nil
}

// Write implements snapshot.Backend. All records land in one transaction.
func (b *SnapshotBackend) Write(records map[string][]byte) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin snapshot write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(
		`INSERT INTO snapshots (id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare snapshot write: %w", err)
	}
	defer stmt.Close()

	for id, data := range records {
		if _, err := stmt.Exec(id, string(data)); err != nil {
			return fmt.Errorf("storage: cannot write snapshot %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit snapshots: %w", err)
	}
	return nil
}

// IDs lists stored snapshot ids in order.
func (b *SnapshotBackend) IDs() ([]string, error) {
	rows, err := b.db.Query("SELECT id FROM snapshots ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return ids, nil
}
