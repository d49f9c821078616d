package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"carbonwise/internal"
)

// SnapshotKey is the one key the analysis snapshot is stored under.
const SnapshotKey = "carbonAnalysis"

var ErrCorruptSnapshot = errors.New("stored snapshot is corrupt")

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) LoadSnapshot(ctx context.Context) (*internal.AnalysisSnapshot, error) {
	raw, err := d.get(ctx, SnapshotKey)
	if err != nil || raw == nil {
		return nil, err
	}
	return decodeSnapshot([]byte(*raw))
}

// SaveSnapshot replaces whatever snapshot was stored before.
func (d *DB) SaveSnapshot(ctx context.Context, snap internal.AnalysisSnapshot) error {
	blob, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return d.set(ctx, SnapshotKey, string(blob))
}

func (d *DB) DeleteSnapshot(ctx context.Context) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, SnapshotKey)
	return err
}

func (d *DB) set(ctx context.Context, key, value string) error {
	_, err := d.conn.ExecContext(ctx, `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) get(ctx context.Context, key string) (*string, error) {
	var value string
	err := d.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func encodeSnapshot(snap internal.AnalysisSnapshot) ([]byte, error) {
	if snap.Files == nil {
		snap.Files = []internal.UploadedFile{}
	}
	if snap.Activities == nil {
		snap.Activities = []internal.ManualActivity{}
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

func decodeSnapshot(blob []byte) (*internal.AnalysisSnapshot, error) {
	var snap internal.AnalysisSnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return &snap, nil
}
