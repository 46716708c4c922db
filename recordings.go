// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"fmt"
	"sync"
)

// Page is the ordered list of strokes drawn on one sheet.
type Page []Stroke

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	if p == nil {
		return nil
	}
	out := make(Page, len(p))
	for i, s := range p {
		out[i] = s.Clone()
	}
	return out
}

// Equal reports whether p and o hold identical strokes in the same order.
func (p Page) Equal(o Page) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Recordings owns the per-page stroke data of one handwritten entry.
//
// Pages are a contiguous, append-only sequence: page 0 always exists, new
// pages are added at the end and never removed. Strokes within a page are
// only ever appended or cleared all at once.
//
// Recordings is safe for concurrent use. Readers receive snapshot copies,
// so a replay iterating a page is unaffected by later appends.
type Recordings struct {
	mu    sync.RWMutex
	pages []Page
}

// NewRecordings returns recordings holding the single implicit page 0.
func NewRecordings() *Recordings {
	return &Recordings{pages: []Page{{}}}
}

// NewRecordingsFromPages returns recordings holding copies of pages.
// An empty argument yields the implicit page 0.
func NewRecordingsFromPages(pages ...Page) *Recordings {
	r := &Recordings{pages: make([]Page, 0, max(len(pages), 1))}
	for _, p := range pages {
		if p == nil {
			p = Page{}
		}
		r.pages = append(r.pages, p.Clone())
	}
	if len(r.pages) == 0 {
		r.pages = append(r.pages, Page{})
	}
	return r
}

// Len returns the number of pages.
func (r *Recordings) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

// StrokeCount returns the number of strokes across all pages.
func (r *Recordings) StrokeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.pages {
		n += len(p)
	}
	return n
}

// Empty reports whether no page holds a stroke.
func (r *Recordings) Empty() bool {
	return r.StrokeCount() == 0
}

// Page returns a snapshot copy of page i.
func (r *Recordings) Page(i int) (Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i, len(r.pages))
	}
	return r.pages[i].Clone(), nil
}

// Pages returns snapshot copies of all pages.
func (r *Recordings) Pages() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Page, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.Clone()
	}
	return out
}

// Append adds a stroke to the end of page i.
// The stroke is copied; earlier strokes of the page are left untouched.
func (r *Recordings) Append(i int, s Stroke) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.pages) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i, len(r.pages))
	}
	r.pages[i] = append(r.pages[i], s.Clone())
	return nil
}

// ClearPage replaces the strokes of page i with an empty list.
func (r *Recordings) ClearPage(i int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.pages) {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, i, len(r.pages))
	}
	r.pages[i] = Page{}
	return nil
}

// AddPage appends an empty page and returns its index.
func (r *Recordings) AddPage() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, Page{})
	return len(r.pages) - 1
}

// Clone returns a deep copy of r.
func (r *Recordings) Clone() *Recordings {
	return NewRecordingsFromPages(r.Pages()...)
}

// Equal reports whether r and o hold identical pages.
func (r *Recordings) Equal(o *Recordings) bool {
	a, b := r.Pages(), o.Pages()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
