// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/ink"
)

// Option configures a Raster during creation.
type Option func(*options)

type options struct {
	background gg.RGBA
	size       ink.Size
}

func defaultOptions() options {
	return options{background: gg.White}
}

// WithBackground sets the color the ink is composited over when the
// raster is read. The default is white; gg.Transparent keeps the alpha.
func WithBackground(c gg.RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithSize allocates the raster up front, for use without a Board.
func WithSize(size ink.Size) Option {
	return func(o *options) {
		o.size = size
	}
}
