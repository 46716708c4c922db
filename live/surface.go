// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package live

import (
	"errors"
	"sync"

	"github.com/gogpu/ink"
)

// ErrClosed is returned by a closed Surface.
var ErrClosed = errors.New("live: surface is closed")

// Sender delivers frames to the browser. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(f Frame) error
}

// Surface is an ink.Surface that forwards every drawing call as a Frame.
// The browser draws the frames as they arrive, so a replay keeps the
// timing the Player gives it. Smoothing is left to the browser, so
// DrawSegment always reports reaching `to`.
type Surface struct {
	out Sender

	mu     sync.Mutex
	closed bool
}

var _ ink.Surface = (*Surface)(nil)

// NewSurface returns a Surface sending to out.
func NewSurface(out Sender) *Surface {
	return &Surface{out: out}
}

func (s *Surface) send(f Frame) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return s.out.Send(f)
}

// Resize sends a resize frame.
func (s *Surface) Resize(size ink.Size) error {
	return s.send(Frame{Type: FrameResize, Size: &size})
}

// Clear sends a clear frame.
func (s *Surface) Clear() error {
	return s.send(Frame{Type: FrameClear})
}

// SetStyle sends the pen style for the strokes that follow.
func (s *Surface) SetStyle(style ink.Style) error {
	return s.send(Frame{Type: FrameStyle, Style: &style})
}

// BeginStroke sends a begin frame at p.
func (s *Surface) BeginStroke(p ink.Point) error {
	return s.send(Frame{Type: FrameBegin, Point: &p})
}

// DrawSegment sends a segment frame. The client draws the whole
// segment, so the pen always reaches to.
func (s *Surface) DrawSegment(from, to ink.Point) (ink.Point, error) {
	return to, s.send(Frame{Type: FrameSegment, From: &from, To: &to})
}

// EndStroke sends an end frame at p.
func (s *Surface) EndStroke(p ink.Point) error {
	return s.send(Frame{Type: FrameEnd, Point: &p})
}

// SetInputEnabled tells the client whether to deliver pointer input.
func (s *Surface) SetInputEnabled(enabled bool) {
	if err := s.send(Frame{Type: FrameInput, Enabled: &enabled}); err != nil && !errors.Is(err, ErrClosed) {
		ink.Logger().Debug("live: input frame not sent", "error", err)
	}
}

// Close stops forwarding. It does not close the Sender.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
