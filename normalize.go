// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

// MaxReplaySpan is the longest time, in milliseconds, a single stroke
// takes to replay. Longer strokes are compressed proportionally.
const MaxReplaySpan = 1000.0

// MaxReplayWait caps a single wait step of the replay loop, in milliseconds.
const MaxReplayWait = 1000.0

// NormalizeTimes rescales segment times so the stroke spans at most
// MaxReplaySpan milliseconds, preserving relative spacing:
//
//	scale = span > MaxReplaySpan ? MaxReplaySpan/span : 1
//	t'    = (t - first)*scale + first
//
// The input is not modified. Strokes already within the limit are returned
// as an equal copy.
func NormalizeTimes(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	first := segments[0].Time
	span := segments[len(segments)-1].Time - first

	scale := 1.0
	if span > MaxReplaySpan {
		scale = MaxReplaySpan / span
	}

	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if scale != 1 {
			out[i].Time = (seg.Time-first)*scale + first
		}
	}
	return out
}

// clampWait bounds a wait in milliseconds to [0, MaxReplayWait].
func clampWait(ms float64) float64 {
	if ms < 0 {
		return 0
	}
	if ms > MaxReplayWait {
		return MaxReplayWait
	}
	return ms
}
