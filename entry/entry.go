// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package entry defines diary entries and the filters used to list them.
//
// An entry is either typed (plain text content) or handwritten (an encoded
// ink.Recordings). The stored form keeps both fields; Kind decides which
// one a reader shows.
package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ink"
)

// Sentinel errors returned by entry constructors and Validate.
var (
	ErrNoOwner    = errors.New("entry: owner is required")
	ErrNoContent  = errors.New("entry: content is empty")
	ErrNoStrokes  = errors.New("entry: recordings hold no strokes")
	ErrInvalidID  = errors.New("entry: invalid id")
	ErrDateFormat = errors.New("entry: invalid date")
	ErrDateRange  = errors.New("entry: date range ends before it starts")
)

// EmptyRecordings is the stored recordings value of a typed entry.
const EmptyRecordings = "[]"

// HeadingLayout formats CreatedAt for entry headings.
const HeadingLayout = "January 2, 2006, at 3:04 PM"

// Kind tells how an entry was written.
type Kind int

const (
	// KindTyped is a text entry.
	KindTyped Kind = iota

	// KindHandwritten is an entry drawn on a board.
	KindHandwritten
)

// String returns "typed" or "handwritten".
func (k Kind) String() string {
	if k == KindHandwritten {
		return "handwritten"
	}
	return "typed"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one diary entry.
type Entry struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	Content    string    `json:"content"`
	Recordings string    `json:"recordings_map"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTyped returns a text entry owned by owner. The content is stored in
// Unicode NFC form.
func NewTyped(owner, content string) (Entry, error) {
	e := Entry{
		ID:         uuid.NewString(),
		Owner:      owner,
		Content:    norm.NFC.String(content),
		Recordings: EmptyRecordings,
		CreatedAt:  time.Now().UTC(),
	}
	return e, e.Validate()
}

// NewHandwritten returns a handwritten entry holding rec.
func NewHandwritten(owner string, rec *ink.Recordings) (Entry, error) {
	if rec == nil || rec.Empty() {
		return Entry{}, ErrNoStrokes
	}
	encoded, err := rec.Encode()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		ID:         uuid.NewString(),
		Owner:      owner,
		Recordings: encoded,
		CreatedAt:  time.Now().UTC(),
	}
	return e, e.Validate()
}

// Kind reports whether the entry is handwritten. Recordings win: an
// entry whose recordings hold at least one stroke is handwritten even if
// it also carries text.
func (e Entry) Kind() Kind {
	if e.Recordings == "" {
		return KindTyped
	}
	rec, err := ink.Decode(e.Recordings)
	if err != nil || rec.Empty() {
		return KindTyped
	}
	return KindHandwritten
}

// Decode parses the entry's recordings.
func (e Entry) Decode() (*ink.Recordings, error) {
	rec, err := ink.Decode(e.Recordings)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	return rec, nil
}

// Validate checks that the entry has an owner and something to show.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Owner) == "" {
		return ErrNoOwner
	}
	if e.Recordings != "" && e.Recordings != EmptyRecordings {
		rec, err := ink.Decode(e.Recordings)
		if err != nil {
			return err
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		if !rec.Empty() {
			return nil
		}
	}
	if strings.TrimSpace(e.Content) == "" {
		return ErrNoContent
	}
	return nil
}

// Heading returns the creation time in the diary heading format,
// for example "October 15, 2026, at 3:04 PM".
func (e Entry) Heading(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return e.CreatedAt.In(loc).Format(HeadingLayout)
}

// ParseID validates an entry id.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id.String(), nil
}
