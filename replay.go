// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// State is the replay state of one surface.
type State int32

const (
	// StateIdle accepts input and replay requests.
	StateIdle State = iota

	// StateReplaying ignores input and further replay requests.
	StateReplaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReplaying:
		return "replaying"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ReplayState is the Idle/Replaying state machine guarding one surface.
// The zero value is Idle. It is safe for concurrent use.
type ReplayState struct {
	v atomic.Int32
}

// Load returns the current state.
func (s *ReplayState) Load() State {
	return State(s.v.Load())
}

// TryBegin moves Idle to Replaying and reports whether it did.
// It returns false when a replay is already running.
func (s *ReplayState) TryBegin() bool {
	return s.v.CompareAndSwap(int32(StateIdle), int32(StateReplaying))
}

// Finish returns the state to Idle.
func (s *ReplayState) Finish() {
	s.v.Store(int32(StateIdle))
}

// Player redraws recorded pages with their original rhythm.
//
// Each stroke is compressed to at most MaxReplaySpan milliseconds by
// NormalizeTimes, then its segments are drawn as the clock reaches their
// time. A Player holds no per-replay state and may be shared.
type Player struct {
	clock Clock
}

// NewPlayer returns a Player timed by clock. A nil clock selects SystemClock.
func NewPlayer(clock Clock) *Player {
	if clock == nil {
		clock = SystemClock()
	}
	return &Player{clock: clock}
}

// Play replays page onto surface under the state guard.
//
// If state is already Replaying, Play returns (false, nil) without touching
// the surface. Otherwise it disables surface input, draws the page and
// always restores input and the Idle state before returning, whether the
// replay completed, failed or was cancelled through ctx.
func (p *Player) Play(ctx context.Context, state *ReplayState, surface Surface, page Page) (bool, error) {
	if !state.TryBegin() {
		Logger().Debug("ink: replay already running")
		return false, nil
	}
	surface.SetInputEnabled(false)
	defer func() {
		surface.SetInputEnabled(true)
		state.Finish()
	}()

	err := p.Draw(ctx, surface, page)
	logReplayError(err)
	return true, err
}

// Draw clears surface once and redraws every stroke of page in order.
// It does not consult any replay state; Play and Board wrap it with the
// Idle/Replaying guard.
//
// Draw returns ctx.Err() as soon as ctx is cancelled, checking before
// every wait and every draw. Strokes without segments are skipped.
func (p *Player) Draw(ctx context.Context, surface Surface, page Page) error {
	strokes := page.Clone()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := surface.Clear(); err != nil {
		return fmt.Errorf("ink: replay clear: %w", err)
	}

	started := p.clock.Now()
	for i, s := range strokes {
		if err := s.Validate(); err != nil {
			Logger().Warn("ink: replay skipped stroke", "index", i, "error", err)
			continue
		}
		if err := p.drawStroke(ctx, surface, s); err != nil {
			return fmt.Errorf("ink: replay stroke %d: %w", i, err)
		}
	}
	Logger().Debug("ink: replay finished",
		"strokes", len(strokes),
		"elapsed", p.clock.Now().Sub(started))
	return nil
}

func (p *Player) drawStroke(ctx context.Context, surface Surface, s Stroke) error {
	segments := NormalizeTimes(s.Segments)
	if err := surface.SetStyle(s.Style()); err != nil {
		return err
	}

	reference := p.clock.Now()
	if err := p.waitUntil(ctx, reference, segments[0].Time); err != nil {
		return err
	}
	prev := segments[0].Point
	if err := surface.BeginStroke(prev); err != nil {
		return err
	}

	for _, seg := range segments[1:] {
		if err := p.waitUntil(ctx, reference, seg.Time); err != nil {
			return err
		}
		reached, err := surface.DrawSegment(prev, seg.Point)
		if err != nil {
			return err
		}
		prev = reached
	}
	return surface.EndStroke(prev)
}

// waitUntil blocks until at milliseconds have elapsed since reference.
// A single wait never exceeds MaxReplayWait.
func (p *Player) waitUntil(ctx context.Context, reference time.Time, at float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	elapsed := float64(p.clock.Now().Sub(reference)) / float64(time.Millisecond)
	wait := clampWait(at - elapsed)
	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(millis(wait)):
		return nil
	}
}

func logReplayError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		Logger().Debug("ink: replay cancelled", "error", err)
	default:
		Logger().Warn("ink: replay failed", "error", err)
	}
}
