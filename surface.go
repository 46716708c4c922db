// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

// Size is the pixel size of a drawing surface.
type Size struct {
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Surface is the drawing target capture and replay render onto.
//
// Capture and replay drive a Surface through the same calls, so a replayed
// stroke passes through the same smoothing and width logic as the live one:
//
//	s.SetStyle(style)
//	s.BeginStroke(first)
//	prev := first
//	for _, p := range rest {
//	    prev, _ = s.DrawSegment(prev, p)
//	}
//	s.EndStroke(prev)
//
// A stroke that ends without any DrawSegment call is rendered as a single
// dot of the stroke weight.
//
// Implementations live in the canvas (raster) and live (websocket)
// packages. Surfaces are not safe for concurrent use; the Board serializes
// access.
type Surface interface {
	// Resize sets the surface size. The board calls it once on mount.
	Resize(size Size) error

	// Clear erases the whole surface.
	Clear() error

	// SetStyle sets the pen used by subsequent strokes.
	SetStyle(style Style) error

	// BeginStroke starts a stroke at p.
	BeginStroke(p Point) error

	// DrawSegment draws from `from` towards `to` and returns the point
	// actually reached, which smoothing may place short of `to`.
	DrawSegment(from, to Point) (Point, error)

	// EndStroke finishes the stroke at p.
	EndStroke(p Point) error

	// SetInputEnabled toggles pointer input on the host canvas.
	// Replay disables input for its duration.
	SetInputEnabled(enabled bool)

	// Close releases the surface. Close is idempotent.
	Close() error
}
