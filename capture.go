// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

// Capturer turns pointer motion into Strokes.
//
// Each gesture runs Begin, zero or more Move calls and End. The surface
// renders the gesture live; End emits the finished Stroke to the recorded
// listener exactly once. While the replay state is Replaying, input is
// ignored and no stroke is emitted, so replayed draws are never captured
// again.
//
// Capturer is not safe for concurrent use.
type Capturer struct {
	surface  Surface
	state    *ReplayState
	recorded func(Stroke)

	active   bool
	style    Style
	segments []Segment
	last     Point
}

// NewCapturer returns a Capturer rendering onto surface and reporting
// finished strokes to recorded. state may be nil when no replay shares the
// surface.
func NewCapturer(surface Surface, state *ReplayState, recorded func(Stroke)) *Capturer {
	return &Capturer{
		surface:  surface,
		state:    state,
		recorded: recorded,
	}
}

func (c *Capturer) suppressed() bool {
	return c.state != nil && c.state.Load() == StateReplaying
}

// Active reports whether a gesture is in progress.
func (c *Capturer) Active() bool {
	return c.active
}

// Begin opens a gesture at p, sampled at t milliseconds.
// style is frozen for the whole stroke.
func (c *Capturer) Begin(p Point, t float64, style Style) error {
	if c.suppressed() {
		return nil
	}
	c.active = true
	c.style = style
	c.segments = append(c.segments[:0:0], Segment{Point: p, Time: t})
	c.last = p
	return c.surface.BeginStroke(p)
}

// Move extends the gesture to p, sampled at t milliseconds.
// Calls outside a gesture are ignored.
func (c *Capturer) Move(p Point, t float64) error {
	if !c.active || c.suppressed() {
		return nil
	}
	c.segments = append(c.segments, Segment{Point: p, Time: t})
	reached, err := c.surface.DrawSegment(c.last, p)
	if err != nil {
		return err
	}
	c.last = reached
	return nil
}

// End finishes the gesture and emits the recorded stroke.
// A gesture without Move calls yields a one-segment stroke.
func (c *Capturer) End() error {
	if !c.active {
		return nil
	}
	c.active = false
	if c.suppressed() {
		Logger().Debug("ink: stroke dropped during replay", "segments", len(c.segments))
		c.segments = nil
		return nil
	}

	err := c.surface.EndStroke(c.last)
	stroke := NewStroke(c.style, c.segments...)
	c.segments = nil

	Logger().Debug("ink: stroke recorded",
		"segments", len(stroke.Segments),
		"span_ms", stroke.Span(),
		"mode", stroke.Mode)
	if c.recorded != nil {
		c.recorded(stroke)
	}
	return err
}

// Cancel abandons the gesture without emitting a stroke.
func (c *Capturer) Cancel() {
	c.active = false
	c.segments = nil
}
