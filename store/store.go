// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package store persists diary entries in SQLite.
//
// Every query is scoped by owner: an entry of another owner behaves as if
// it did not exist.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/entry"
)

// ErrNotFound is returned when no entry matches the id and owner.
var ErrNotFound = errors.New("store: entry not found")

// timeLayout is the stored created_at format. SQLite's DATE() accepts it.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store is an entry database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts e after validating it.
func (s *Store) Add(ctx context.Context, e entry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Recordings == "" {
		e.Recordings = entry.EmptyRecordings
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, owner, content, recordings_map, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Owner, e.Content, e.Recordings, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("store: add %s: %w", e.ID, err)
	}
	ink.Logger().Info("store: entry added", "id", e.ID, "kind", e.Kind())
	return nil
}

// Get returns the entry id of owner.
func (s *Store) Get(ctx context.Context, owner, id string) (entry.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner, content, recordings_map, created_at FROM entries WHERE id = ? AND owner = ?`,
		id, owner)
	e, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Update replaces the content and recordings of e, matched by e.ID and
// e.Owner. The creation time is kept.
func (s *Store) Update(ctx context.Context, e entry.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Recordings == "" {
		e.Recordings = entry.EmptyRecordings
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET content = ?, recordings_map = ? WHERE id = ? AND owner = ?`,
		e.Content, e.Recordings, e.ID, e.Owner)
	if err != nil {
		return fmt.Errorf("store: update %s: %w", e.ID, err)
	}
	return affected(res, e.ID)
}

// Delete removes the entry id of owner.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return affected(res, id)
}

// DeleteMany removes the listed entries of owner in one transaction and
// returns how many existed. Unknown ids are skipped.
func (s *Store) DeleteMany(ctx context.Context, owner string, ids []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM entries WHERE id = ? AND owner = ?`)
	if err != nil {
		return 0, fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	deleted := 0
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, id, owner)
		if err != nil {
			return 0, fmt.Errorf("store: delete %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		deleted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	ink.Logger().Info("store: entries deleted", "owner", owner, "requested", len(ids), "deleted", deleted)
	return deleted, nil
}

// List returns the entries of owner passing f, oldest first.
func (s *Store) List(ctx context.Context, owner string, f entry.DateFilter) ([]entry.Entry, error) {
	query := `SELECT id, owner, content, recordings_map, created_at FROM entries WHERE owner = ?`
	args := []any{owner}
	if from, to, ok := f.Bounds(); ok {
		query += ` AND DATE(created_at) BETWEEN ? AND ?`
		args = append(args, from, to)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []entry.Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (entry.Entry, error) {
	var e entry.Entry
	var created string
	if err := sc.Scan(&e.ID, &e.Owner, &e.Content, &e.Recordings, &created); err != nil {
		return entry.Entry{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("store: entry %s created_at %q: %w", e.ID, created, err)
	}
	e.CreatedAt = t
	return e, nil
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
