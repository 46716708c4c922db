// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ink captures handwritten strokes with their timing and replays
// them with the original rhythm.
//
// # Overview
//
// A handwritten diary entry is a set of pages, each an ordered list of
// strokes. A Stroke is one pen-down to pen-up gesture: the pen Style frozen
// at pen-down plus the sampled Segments (point and millisecond timestamp).
// Recordings holds the pages and encodes them to the persisted JSON form:
//
//	{"0":[{"weight":2,"mode":"draw","smoothing":1,"color":"#000000",
//	       "adaptiveStroke":false,"segments":[{"point":{"x":1,"y":2},"time":0}]}]}
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ink"
//	    "github.com/gogpu/ink/canvas"
//	)
//
//	surface := canvas.NewRaster()
//	board := ink.NewBoard(surface, nil, ink.WithTooling(true))
//	board.Mount(ink.Size{Width: 800, Height: 1000})
//
//	board.PointerDown(ink.Pt(10, 10), 0)
//	board.PointerMove(ink.Pt(40, 30), 16)
//	board.PointerUp()
//
//	encoded, _ := board.Submit()
//
// # Replay
//
// Player redraws a page onto a Surface. Each stroke is compressed to at
// most one second (NormalizeTimes) and its segments are drawn as the Clock
// reaches their timestamps. While a replay runs the ReplayState is
// Replaying: pointer input is ignored, pen tools are disabled and further
// replay requests are no-ops. The state always returns to Idle, including
// when the replay is cancelled or the surface fails.
//
// # Sub-packages
//
//   - canvas: raster Surface on github.com/gogpu/gg
//   - export: PNG, PDF and recording exporters for pages
//   - entry: diary entry model and date filters
//   - store: SQLite persistence for entries
//   - live: websocket sessions streaming a Board to a browser
//
// # Logging
//
// ink is silent by default. Use SetLogger to route diagnostics to a
// slog.Logger.
package ink
