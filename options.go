// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

// BoardOption configures a Board during creation.
//
// Example:
//
//	// Read-only viewer replaying with wall-clock timing
//	b := ink.NewBoard(surface, recordings)
//
//	// Composition board with a thicker pen
//	b := ink.NewBoard(surface, nil, ink.WithTooling(true), ink.WithPenWeight(8))
type BoardOption func(*boardOptions)

type boardOptions struct {
	clock        Clock
	tooling      bool
	penWeight    float64
	onReplayDone func(page int, err error)
}

func defaultBoardOptions() boardOptions {
	return boardOptions{
		clock:     SystemClock(),
		penWeight: MinPenWeight,
	}
}

// WithClock sets the clock that times replays.
// Use InstantClock to render pages without waiting.
func WithClock(c Clock) BoardOption {
	return func(o *boardOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithTooling selects composition mode (true) or viewer mode (false).
// Viewer is the default.
func WithTooling(tooling bool) BoardOption {
	return func(o *boardOptions) {
		o.tooling = tooling
	}
}

// WithPenWeight sets the initial pen weight, clamped to
// [MinPenWeight, MaxPenWeight].
func WithPenWeight(w float64) BoardOption {
	return func(o *boardOptions) {
		o.penWeight = min(max(w, MinPenWeight), MaxPenWeight)
	}
}

// WithReplayDone registers a callback invoked after every replay ends,
// with the replayed page and the replay error (nil on success).
// The callback runs on the replay goroutine with no board lock held.
func WithReplayDone(fn func(page int, err error)) BoardOption {
	return func(o *boardOptions) {
		o.onReplayDone = fn
	}
}
