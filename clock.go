// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import "time"

// Clock is the time source of the replay engine.
// Tests substitute a fake to make replay timing deterministic.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// SystemClock returns the wall-clock implementation of Clock.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// InstantClock returns a Clock whose waits complete immediately.
// It renders a replay's final image without reproducing its timing.
func InstantClock() Clock { return instantClock{} }

type instantClock struct{}

func (instantClock) Now() time.Time { return time.Now() }

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
