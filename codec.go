// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON encodes the recordings as an object keyed by decimal page
// index, in page order:
//
//	{"0":[{"weight":2,"mode":"draw",...,"segments":[...]}],"1":[]}
func (r *Recordings) MarshalJSON() ([]byte, error) {
	pages := r.Pages()

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pages {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteByte(':')
		if p == nil {
			p = Page{}
		}
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("ink: encode page %d: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the page-keyed object produced by MarshalJSON.
//
// The legacy empty forms null, [] and {} decode to a single empty page.
// A JSON array of pages is accepted as well. Object keys must be the
// contiguous range 0..n-1, otherwise ErrPageGap is returned.
func (r *Recordings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.replace(nil)
		return nil
	}

	switch data[0] {
	case '[':
		var pages []Page
		if err := json.Unmarshal(data, &pages); err != nil {
			return fmt.Errorf("ink: decode pages: %w", err)
		}
		r.replace(pages)
		return nil
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("ink: decode recordings: %w", err)
		}
		pages := make([]Page, len(raw))
		seen := make([]bool, len(raw))
		for key, msg := range raw {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 {
				return fmt.Errorf("ink: invalid page key %q", key)
			}
			if idx >= len(raw) || seen[idx] {
				return fmt.Errorf("%w: key %q with %d pages", ErrPageGap, key, len(raw))
			}
			seen[idx] = true
			var p Page
			if err := json.Unmarshal(msg, &p); err != nil {
				return fmt.Errorf("ink: decode page %d: %w", idx, err)
			}
			pages[idx] = p
		}
		r.replace(pages)
		return nil
	default:
		return fmt.Errorf("ink: decode recordings: unexpected %q", data[0])
	}
}

func (r *Recordings) replace(pages []Page) {
	for i, p := range pages {
		if p == nil {
			pages[i] = Page{}
		}
	}
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
}

// Encode returns the JSON form stored in an entry's recordings field.
func (r *Recordings) Encode() (string, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses the JSON form stored in an entry's recordings field.
func Decode(s string) (*Recordings, error) {
	r := &Recordings{}
	if err := r.UnmarshalJSON([]byte(s)); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks every stroke of every page.
func (r *Recordings) Validate() error {
	for i, p := range r.Pages() {
		for j, s := range p {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("page %d stroke %d: %w", i, j, err)
			}
		}
	}
	return nil
}
