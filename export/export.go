// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package export renders recorded pages to files.
//
// Exporters are looked up by format name:
//
//	e, err := export.New("pdf")
//	if err != nil {
//	    return err
//	}
//	err = e.Export(ctx, w, recordings, export.Options{Size: ink.Size{Width: 800, Height: 1000}})
//
// Built-in formats are "png" (one page through canvas.Raster), "pdf" (every
// page as vector lines) and "raster" (one page through a gg recording).
package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/canvas"
)

// DefaultSize is the page size used when Options.Size is zero.
var DefaultSize = ink.Size{Width: 800, Height: 1000}

// ErrUnknownFormat is returned by New for unregistered names.
var ErrUnknownFormat = errors.New("export: unknown format")

// Exporter writes recordings in one file format.
type Exporter interface {
	// ContentType returns the MIME type of the output.
	ContentType() string

	// Export writes rec to w.
	Export(ctx context.Context, w io.Writer, rec *ink.Recordings, opts Options) error
}

// Options controls an export.
type Options struct {
	// Size is the page size in pixels (PDF points). Zero selects DefaultSize.
	Size ink.Size

	// Page selects the page for single-page formats.
	Page int
}

func (o Options) size() ink.Size {
	if o.Size.Width <= 0 || o.Size.Height <= 0 {
		return DefaultSize
	}
	return o.Size
}

// RenderPage draws the final state of one page onto a new raster, without
// replay timing. The caller owns the returned raster and must close it.
func RenderPage(ctx context.Context, rec *ink.Recordings, page int, size ink.Size, opts ...canvas.Option) (*canvas.Raster, error) {
	strokes, err := rec.Page(page)
	if err != nil {
		return nil, err
	}
	r := canvas.NewRaster(append([]canvas.Option{canvas.WithSize(size)}, opts...)...)
	if err := ink.NewPlayer(ink.InstantClock()).Draw(ctx, r, strokes); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("export: render page %d: %w", page, err)
	}
	return r, nil
}
