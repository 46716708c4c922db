// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import (
	"math"
	"testing"
)

func TestNormalizeTimes(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, nil},
		{"single", []float64{42}, []float64{42}},
		{"within limit", []float64{0, 300, 900}, []float64{0, 300, 900}},
		{"exactly limit", []float64{100, 600, 1100}, []float64{100, 600, 1100}},
		{"compressed", []float64{0, 200, 2400}, []float64{0, 200.0 / 2.4, 1000}},
		{"offset start", []float64{1000, 6000}, []float64{1000, 2000}},
		{"five seconds", []float64{0, 1250, 2500, 5000}, []float64{0, 250, 500, 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]Segment, len(tt.in))
			for i, ts := range tt.in {
				in[i] = seg(float64(i), float64(i), ts)
			}
			got := NormalizeTimes(in)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i].Time-tt.want[i]) > 1e-9 {
					t.Errorf("t[%d] = %v, want %v", i, got[i].Time, tt.want[i])
				}
				if got[i].Point != in[i].Point {
					t.Errorf("point[%d] changed: %v", i, got[i].Point)
				}
			}
			for i, ts := range tt.in {
				if in[i].Time != ts {
					t.Errorf("input modified at %d", i)
				}
			}
		})
	}
}

func TestNormalizeTimesIdempotent(t *testing.T) {
	in := []Segment{seg(0, 0, 10), seg(1, 1, 4000), seg(2, 2, 9000)}
	once := NormalizeTimes(in)
	twice := NormalizeTimes(once)
	for i := range once {
		if math.Abs(once[i].Time-twice[i].Time) > 1e-9 {
			t.Errorf("t[%d]: %v then %v", i, once[i].Time, twice[i].Time)
		}
	}
	if span := once[len(once)-1].Time - once[0].Time; math.Abs(span-MaxReplaySpan) > 1e-9 {
		t.Errorf("span = %v, want %v", span, MaxReplaySpan)
	}
}

func TestClampWait(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-50, 0},
		{0, 0},
		{250, 250},
		{1000, 1000},
		{4000, MaxReplayWait},
	}
	for _, tt := range tests {
		if got := clampWait(tt.in); got != tt.want {
			t.Errorf("clampWait(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
