// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// recordingSurface is a Surface that logs every call.
type recordingSurface struct {
	mu      sync.Mutex
	ops     []string
	styles  []Style
	size    Size
	input   bool
	inputs  []bool
	closed  int
	failOn  string
	failErr error
}

var errSurface = errors.New("surface failure")

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{input: true}
}

func (s *recordingSurface) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
	if s.failOn != "" && op == s.failOn {
		if s.failErr != nil {
			return s.failErr
		}
		return errSurface
	}
	return nil
}

func (s *recordingSurface) Resize(size Size) error {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
	return s.record("resize")
}

func (s *recordingSurface) Clear() error { return s.record("clear") }

func (s *recordingSurface) SetStyle(style Style) error {
	s.mu.Lock()
	s.styles = append(s.styles, style)
	s.mu.Unlock()
	return s.record("style")
}

func (s *recordingSurface) BeginStroke(p Point) error {
	return s.record(fmt.Sprintf("begin %g,%g", p.X, p.Y))
}

func (s *recordingSurface) DrawSegment(from, to Point) (Point, error) {
	return to, s.record(fmt.Sprintf("segment %g,%g-%g,%g", from.X, from.Y, to.X, to.Y))
}

func (s *recordingSurface) EndStroke(p Point) error {
	return s.record(fmt.Sprintf("end %g,%g", p.X, p.Y))
}

func (s *recordingSurface) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = enabled
	s.inputs = append(s.inputs, enabled)
}

func (s *recordingSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *recordingSurface) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ops...)
}

func (s *recordingSurface) Count(prefix string) int {
	n := 0
	for _, op := range s.Ops() {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (s *recordingSurface) LastStyle() Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.styles) == 0 {
		return Style{}
	}
	return s.styles[len(s.styles)-1]
}

func (s *recordingSurface) InputEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *recordingSurface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
	s.styles = nil
	s.inputs = nil
}

// fakeClock advances its own time by every requested wait.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// gateClock blocks every wait until release is closed. waiting receives
// once per wait so tests know a replay is parked mid-stroke.
type gateClock struct {
	waiting chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateClock() *gateClock {
	return &gateClock{
		waiting: make(chan struct{}, 64),
		release: make(chan struct{}),
	}
}

func (c *gateClock) Now() time.Time { return time.Unix(1700000000, 0) }

func (c *gateClock) After(time.Duration) <-chan time.Time {
	select {
	case c.waiting <- struct{}{}:
	default:
	}
	ch := make(chan time.Time, 1)
	go func() {
		<-c.release
		ch <- time.Now()
	}()
	return ch
}

func (c *gateClock) Open() {
	c.once.Do(func() { close(c.release) })
}

// seg builds a segment at (x, y) sampled at t milliseconds.
func seg(x, y, t float64) Segment {
	return Segment{Point: Pt(x, y), Time: t}
}

// testStroke returns a draw stroke of weight 2 through segs.
func testStroke(segs ...Segment) Stroke {
	return NewStroke(DefaultStyle(2), segs...)
}
