// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog keeps a local SQLite history of export runs.
//
// Every artifact an export command writes is recorded here so `aiexport
// history` can answer "what did I already pull down, and when" without
// walking the output tree.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	resource_id   TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	path          TEXT NOT NULL,
	format        TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exports_resource ON exports(resource_id);
CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);
`

// Record statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Record is one catalog row.
type Record struct {
	ResourceID   string
	ResourceType string
	Path         string
	Format       string
	Status       string
	CreatedAt    time.Time
}

// Catalog is the export-history store.
type Catalog struct {
	db *sql.DB
}

// Open opens (and creates if needed) the catalog database at path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records one artifact.
func (c *Catalog) Add(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO exports (resource_id, resource_type, path, format, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ResourceID, rec.ResourceType, rec.Path, rec.Format, rec.Status,
		rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (c *Catalog) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT resource_id, resource_type, path, format, status, created_at
		 FROM exports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var created string
		if err := rows.Scan(&rec.ResourceID, &rec.ResourceType, &rec.Path, &rec.Format, &rec.Status, &created); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByStatus returns the number of records with the given status.
func (c *Catalog) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exports WHERE status = ?`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count exports: %w", err)
	}
	return n, nil
}
