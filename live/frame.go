// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package live

import "github.com/gogpu/ink"

// Frame types sent to the browser. The drawing types mirror the
// ink.Surface calls one to one.
const (
	FrameResize   = "resize"
	FrameClear    = "clear"
	FrameStyle    = "style"
	FrameBegin    = "begin"
	FrameSegment  = "segment"
	FrameEnd      = "end"
	FrameInput    = "input"
	FrameControls = "controls"
	FrameSaved    = "saved"
	FrameError    = "error"
)

// Frame is one server to browser message.
type Frame struct {
	Type string `json:"type"`

	Size     *ink.Size     `json:"size,omitempty"`
	Style    *ink.Style    `json:"style,omitempty"`
	Point    *ink.Point    `json:"point,omitempty"`
	From     *ink.Point    `json:"from,omitempty"`
	To       *ink.Point    `json:"to,omitempty"`
	Enabled  *bool         `json:"enabled,omitempty"`
	Controls *ink.Controls `json:"controls,omitempty"`

	// Recordings carries the encoded map of a saved entry.
	Recordings string `json:"recordings,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Message types accepted from the browser.
const (
	MsgDown   = "down"
	MsgMove   = "move"
	MsgUp     = "up"
	MsgPen    = "pen"
	MsgErase  = "erase"
	MsgClear  = "clear"
	MsgReplay = "replay"
	MsgPrev   = "prev"
	MsgNext   = "next"
	MsgAdd    = "add"
	MsgSave   = "save"
)

// Message is one browser to server message. Point and Time are set for
// pointer messages, Weight for "pen".
type Message struct {
	Type   string     `json:"type"`
	Point  *ink.Point `json:"point,omitempty"`
	Time   float64    `json:"time,omitempty"`
	Weight float64    `json:"weight,omitempty"`
}
