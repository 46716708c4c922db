// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/entry"
)

func typed(t *testing.T, owner, content string, at time.Time) entry.Entry {
	t.Helper()
	e, err := entry.NewTyped(owner, content)
	if err != nil {
		t.Fatal(err)
	}
	e.CreatedAt = at
	return e
}

// openMemory mirrors storetest.Open, which this package cannot import.
func openMemory(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(Memory, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenPragmas(t *testing.T) {
	s := openMemory(t, WithBusyTimeout(5000))

	var bt int
	if err := s.db.QueryRow("PRAGMA busy_timeout").Scan(&bt); err != nil {
		t.Fatal(err)
	}
	if bt != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", bt)
	}
	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
	if n := s.db.Stats().MaxOpenConnections; n != 1 {
		t.Errorf("in-memory MaxOpenConnections = %d, want 1", n)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "diary.db")
	s, err := Open(path, WithMkdirAll())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	e := typed(t, "alice", "persisted", time.Now())
	if err := s.Add(ctx, e); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Get(ctx, "alice", e.ID); err != nil {
		t.Errorf("Get after reopen = %v", err)
	}
}

func TestAddGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	rec := ink.NewRecordingsFromPages(ink.Page{
		ink.NewStroke(ink.DefaultStyle(4), ink.Segment{Point: ink.Pt(3, 4), Time: 12}),
	})
	hw, err := entry.NewHandwritten("alice", rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, hw); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "alice", hw.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind() != entry.KindHandwritten || got.Recordings != hw.Recordings {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(hw.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, hw.CreatedAt)
	}

	if _, err := s.Get(ctx, "mallory", hw.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get by other owner = %v, want ErrNotFound", err)
	}
	if err := s.Add(ctx, entry.Entry{ID: "x", Owner: "alice"}); !errors.Is(err, entry.ErrNoContent) {
		t.Errorf("Add(invalid) = %v, want ErrNoContent", err)
	}
}

func TestUpdateDelete(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	e := typed(t, "alice", "draft", time.Now())
	if err := s.Add(ctx, e); err != nil {
		t.Fatal(err)
	}

	e.Content = "final"
	if err := s.Update(ctx, e); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(ctx, "alice", e.ID)
	if got.Content != "final" {
		t.Errorf("Content = %q", got.Content)
	}

	other := e
	other.Owner = "mallory"
	if err := s.Update(ctx, other); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update by other owner = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "mallory", e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by other owner = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "alice", e.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "alice", e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMany(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	var ids []string
	for _, c := range []string{"a", "b", "c"} {
		e := typed(t, "alice", c, time.Now())
		if err := s.Add(ctx, e); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, e.ID)
	}
	theirs := typed(t, "bob", "mine", time.Now())
	_ = s.Add(ctx, theirs)

	n, err := s.DeleteMany(ctx, "alice", []string{ids[0], ids[2], "missing", theirs.ID})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, _ := s.List(ctx, "alice", entry.NoFilter())
	if len(left) != 1 || left[0].ID != ids[1] {
		t.Errorf("left = %+v", left)
	}
	if _, err := s.Get(ctx, "bob", theirs.ID); err != nil {
		t.Error("DeleteMany removed another owner's entry")
	}
}

func TestListDateFilter(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	days := []time.Time{
		time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range days {
		if err := s.Add(ctx, typed(t, "alice", string(rune('a'+i)), d)); err != nil {
			t.Fatal(err)
		}
	}
	_ = s.Add(ctx, typed(t, "bob", "x", days[1]))

	rng, _ := entry.Between(days[1], days[2])
	tests := []struct {
		name string
		f    entry.DateFilter
		want []string
	}{
		{"none", entry.NoFilter(), []string{"a", "b", "c", "d"}},
		{"single", entry.OnDay(days[0]), []string{"a"}},
		{"range", rng, []string{"b", "c"}},
		{"empty day", entry.OnDay(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, "alice", tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d entries, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Content != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Content, tt.want[i])
				}
				if !tt.f.Match(got[i].CreatedAt) {
					t.Errorf("entry %q does not match the filter", got[i].Content)
				}
			}
		})
	}
}
