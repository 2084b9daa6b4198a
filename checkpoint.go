package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// checkpointStore persists one sync marker per table in a local SQLite
// file, overwritten wholesale on each save. It only exists to let an
// interrupted run resume; a from-scratch run never needs it.
type checkpointStore struct {
	db *sql.DB
}

func openCheckpointStore(path string) (*checkpointStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint store: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS checkpoints (
		table_name      TEXT PRIMARY KEY,
		last_sync_time  TEXT NOT NULL,
		last_sync_count INTEGER NOT NULL,
		status          TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init checkpoint store: %w", err)
	}
	return &checkpointStore{db: db}, nil
}

func (s *checkpointStore) Close() error {
	return s.db.Close()
}

// Save overwrites the table's checkpoint record.
func (s *checkpointStore) Save(ctx context.Context, cp Checkpoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (table_name, last_sync_time, last_sync_count, status, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(table_name) DO UPDATE SET
		   last_sync_time = excluded.last_sync_time,
		   last_sync_count = excluded.last_sync_count,
		   status = excluded.status,
		   updated_at = excluded.updated_at`,
		cp.TableName, cp.LastSyncTime, cp.LastSyncCount, cp.Status,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint for %s: %w", cp.TableName, err)
	}
	return nil
}

// Get returns the table's checkpoint, or nil when the table was never attempted.
func (s *checkpointStore) Get(ctx context.Context, tableName string) (*Checkpoint, error) {
	var cp Checkpoint
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT table_name, last_sync_time, last_sync_count, status, updated_at
		 FROM checkpoints WHERE table_name = ?`,
		tableName,
	).Scan(&cp.TableName, &cp.LastSyncTime, &cp.LastSyncCount, &cp.Status, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint for %s: %w", tableName, err)
	}
	if ts, perr := time.Parse(time.RFC3339, updatedAt); perr == nil {
		cp.UpdatedAt = ts
	}
	return &cp, nil
}

// Reset removes the table's checkpoint; missing records are not an error.
func (s *checkpointStore) Reset(ctx context.Context, tableName string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE table_name = ?`, tableName); err != nil {
		return fmt.Errorf("reset checkpoint for %s: %w", tableName, err)
	}
	return nil
}

// List returns all checkpoints ordered by table name.
func (s *checkpointStore) List(ctx context.Context) ([]Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_name, last_sync_time, last_sync_count, status, updated_at
		 FROM checkpoints ORDER BY table_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		var cp Checkpoint
		var updatedAt string
		if err := rows.Scan(&cp.TableName, &cp.LastSyncTime, &cp.LastSyncCount, &cp.Status, &updatedAt); err != nil {
			return nil, err
		}
		if ts, perr := time.Parse(time.RFC3339, updatedAt); perr == nil {
			cp.UpdatedAt = ts
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}
