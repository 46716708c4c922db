// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import "fmt"

// Mode selects whether a stroke adds ink or removes previously drawn pixels.
type Mode string

const (
	// ModeDraw paints the stroke color onto the surface.
	ModeDraw Mode = "draw"

	// ModeErase removes pixels under the stroke (destination-out).
	// The stroke color is ignored.
	ModeErase Mode = "erase"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDraw || m == ModeErase
}

// Pen defaults applied when a board mounts.
const (
	DefaultColor     = "#000000"
	DefaultSmoothing = 1.0

	// MinPenWeight and MaxPenWeight bound the pen size slider.
	MinPenWeight = 2.0
	MaxPenWeight = 50.0
)

// Style is the pen state captured at stroke begin.
// Every segment of a Stroke is drawn with the same Style.
type Style struct {
	Weight         float64 `json:"weight"`
	Mode           Mode    `json:"mode"`
	Smoothing      float64 `json:"smoothing"`
	Color          string  `json:"color"`
	AdaptiveStroke bool    `json:"adaptiveStroke"`
}

// DefaultStyle returns the style a freshly mounted board draws with.
func DefaultStyle(weight float64) Style {
	return Style{
		Weight:    weight,
		Mode:      ModeDraw,
		Smoothing: DefaultSmoothing,
		Color:     DefaultColor,
	}
}

// Segment is one sampled pen position and the time it was sampled,
// in milliseconds relative to an arbitrary reference.
type Segment struct {
	Point Point   `json:"point"`
	Time  float64 `json:"time"`
}

// Stroke is one continuous pen-down to pen-up gesture.
// The JSON field layout matches the persisted entry format.
type Stroke struct {
	Weight         float64   `json:"weight"`
	Mode           Mode      `json:"mode"`
	Smoothing      float64   `json:"smoothing"`
	Color          string    `json:"color"`
	AdaptiveStroke bool      `json:"adaptiveStroke"`
	Segments       []Segment `json:"segments"`
}

// NewStroke returns a stroke with the given style and segments.
// The segments slice is copied.
func NewStroke(style Style, segments ...Segment) Stroke {
	s := Stroke{
		Weight:         style.Weight,
		Mode:           style.Mode,
		Smoothing:      style.Smoothing,
		Color:          style.Color,
		AdaptiveStroke: style.AdaptiveStroke,
	}
	s.Segments = append(make([]Segment, 0, len(segments)), segments...)
	return s
}

// Style returns the frozen pen state of the stroke.
func (s Stroke) Style() Style {
	return Style{
		Weight:         s.Weight,
		Mode:           s.Mode,
		Smoothing:      s.Smoothing,
		Color:          s.Color,
		AdaptiveStroke: s.AdaptiveStroke,
	}
}

// Validate checks the invariants of a persisted stroke.
func (s Stroke) Validate() error {
	if len(s.Segments) == 0 {
		return ErrEmptyStroke
	}
	if s.Mode != "" && !s.Mode.Valid() {
		return fmt.Errorf("ink: unknown stroke mode %q", s.Mode)
	}
	return nil
}

// Span returns the time between the first and last segment.
// It returns 0 for strokes without segments.
func (s Stroke) Span() float64 {
	if len(s.Segments) == 0 {
		return 0
	}
	return s.Segments[len(s.Segments)-1].Time - s.Segments[0].Time
}

// Clone returns a deep copy of s.
func (s Stroke) Clone() Stroke {
	c := s
	if s.Segments != nil {
		c.Segments = append(make([]Segment, 0, len(s.Segments)), s.Segments...)
	}
	return c
}

// Equal reports whether s and o carry identical style and segments.
func (s Stroke) Equal(o Stroke) bool {
	if s.Style() != o.Style() || len(s.Segments) != len(o.Segments) {
		return false
	}
	for i := range s.Segments {
		if s.Segments[i] != o.Segments[i] {
			return false
		}
	}
	return true
}
