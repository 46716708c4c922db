// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id             TEXT PRIMARY KEY,
	owner          TEXT NOT NULL,
	content        TEXT NOT NULL DEFAULT '',
	recordings_map TEXT NOT NULL DEFAULT '[]',
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_owner_created ON entries (owner, created_at);
`

type config struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
}

func defaults() config {
	return config{
		busyTimeout: 10_000,
		synchronous: "NORMAL",
	}
}

// Option customises Open.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) Option { return func(c *config) { c.synchronous = mode } }

// WithMkdirAll creates the parent directories of the database path.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// Open opens (creating if needed) the entry database at path. A Memory
// database is held on a single connection, since each connection to it
// sees a separate database.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if path == Memory {
		db.SetMaxOpenConns(1)
	}
	if err := setup(db, &cfg); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func setup(db *sql.DB, cfg *config) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("store: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return nil
}
