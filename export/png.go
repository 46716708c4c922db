// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"context"
	"io"

	"github.com/gogpu/ink"
)

func init() {
	Register("png", pngExporter{})
}

// pngExporter renders Options.Page through canvas.Raster, so smoothing,
// adaptive width and erase look exactly as they did on the board.
type pngExporter struct{}

func (pngExporter) ContentType() string { return "image/png" }

func (pngExporter) Export(ctx context.Context, w io.Writer, rec *ink.Recordings, opts Options) error {
	r, err := RenderPage(ctx, rec, opts.Page, opts.size())
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	ink.Logger().Debug("export: png", "page", opts.Page, "size", opts.size())
	return r.EncodePNG(w)
}
