// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"errors"
	"sync"
	"testing"
)

func TestNewRecordings(t *testing.T) {
	r := NewRecordings()
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if !r.Empty() {
		t.Error("new recordings should be empty")
	}
	if r := NewRecordingsFromPages(); r.Len() != 1 {
		t.Errorf("NewRecordingsFromPages() Len = %d, want 1", r.Len())
	}
}

func TestRecordingsAppend(t *testing.T) {
	r := NewRecordings()
	a := testStroke(seg(0, 0, 0), seg(1, 1, 10))
	b := testStroke(seg(2, 2, 0))

	if err := r.Append(0, a); err != nil {
		t.Fatal(err)
	}
	before, _ := r.Page(0)
	if err := r.Append(0, b); err != nil {
		t.Fatal(err)
	}

	after, _ := r.Page(0)
	if len(after) != 2 || !after[0].Equal(a) || !after[1].Equal(b) {
		t.Errorf("page = %v, want [a b]", after)
	}
	if len(before) != 1 {
		t.Error("earlier snapshot changed after append")
	}
	if r.StrokeCount() != 2 {
		t.Errorf("StrokeCount() = %d, want 2", r.StrokeCount())
	}
}

func TestRecordingsAppendCopies(t *testing.T) {
	r := NewRecordings()
	s := testStroke(seg(0, 0, 0), seg(1, 1, 10))
	if err := r.Append(0, s); err != nil {
		t.Fatal(err)
	}
	s.Segments[0].Point = Pt(99, 99)

	p, _ := r.Page(0)
	if p[0].Segments[0].Point != Pt(0, 0) {
		t.Error("stored stroke aliases caller segments")
	}
	p[0].Segments[1].Time = 500
	again, _ := r.Page(0)
	if again[0].Segments[1].Time != 10 {
		t.Error("snapshot aliases stored segments")
	}
}

func TestRecordingsErrors(t *testing.T) {
	r := NewRecordings()
	if err := r.Append(0, Stroke{}); !errors.Is(err, ErrEmptyStroke) {
		t.Errorf("Append(empty) = %v, want ErrEmptyStroke", err)
	}
	if err := r.Append(3, testStroke(seg(0, 0, 0))); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("Append(3) = %v, want ErrPageOutOfRange", err)
	}
	if _, err := r.Page(-1); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("Page(-1) = %v, want ErrPageOutOfRange", err)
	}
	if err := r.ClearPage(1); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("ClearPage(1) = %v, want ErrPageOutOfRange", err)
	}
}

func TestRecordingsAddAndClearPage(t *testing.T) {
	r := NewRecordings()
	if err := r.Append(0, testStroke(seg(0, 0, 0))); err != nil {
		t.Fatal(err)
	}
	if got := r.AddPage(); got != 1 {
		t.Errorf("AddPage() = %d, want 1", got)
	}
	if got := r.AddPage(); got != 2 {
		t.Errorf("AddPage() = %d, want 2", got)
	}
	if err := r.Append(2, testStroke(seg(5, 5, 0))); err != nil {
		t.Fatal(err)
	}
	if err := r.ClearPage(0); err != nil {
		t.Fatal(err)
	}

	p0, _ := r.Page(0)
	p2, _ := r.Page(2)
	if len(p0) != 0 || len(p2) != 1 {
		t.Errorf("pages = %d/%d strokes, want 0/1", len(p0), len(p2))
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestRecordingsCloneEqual(t *testing.T) {
	r := NewRecordingsFromPages(Page{testStroke(seg(1, 1, 0))})
	c := r.Clone()
	if !c.Equal(r) {
		t.Fatal("clone not equal")
	}
	if err := c.Append(0, testStroke(seg(2, 2, 0))); err != nil {
		t.Fatal(err)
	}
	if c.Equal(r) {
		t.Error("clone shares state with original")
	}
}

func TestRecordingsConcurrent(t *testing.T) {
	r := NewRecordings()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Append(0, testStroke(seg(float64(i), 0, 0)))
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Encode()
		}()
	}
	wg.Wait()
	if r.StrokeCount() != 20 {
		t.Errorf("StrokeCount() = %d, want 20", r.StrokeCount())
	}
}
