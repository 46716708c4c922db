// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ink

import "errors"

// Sentinel errors returned by ink. Callers should compare with errors.Is,
// since most are wrapped with page or stroke context.
var (
	// ErrEmptyStroke is returned for a stroke without segments.
	ErrEmptyStroke = errors.New("ink: stroke has no segments")

	// ErrPageOutOfRange is returned when a page index does not exist.
	ErrPageOutOfRange = errors.New("ink: page out of range")

	// ErrPageGap is returned when decoded page indices are not contiguous.
	ErrPageGap = errors.New("ink: page indices are not contiguous")

	// ErrReplaying is returned by tool operations refused during a replay.
	ErrReplaying = errors.New("ink: replay in progress")

	// ErrReadOnly is returned by editing operations on a viewer board.
	ErrReadOnly = errors.New("ink: board is read-only")

	// ErrPenWeight is returned for a pen weight outside [MinPenWeight, MaxPenWeight].
	ErrPenWeight = errors.New("ink: pen weight out of range")

	// ErrClosed is returned by operations on a closed board.
	ErrClosed = errors.New("ink: board is closed")

	// ErrNotMounted is returned by operations that need a mounted board.
	ErrNotMounted = errors.New("ink: board is not mounted")
)
