// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"context"
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
	_ "github.com/gogpu/gg/recording/backends/raster" // registers "raster"

	"github.com/gogpu/ink"
)

func init() {
	Register("raster", recordingExporter{backend: "raster"})
}

// Record transcribes page into a gg recording of the given size. The
// recording holds the raw sampled polylines, without smoothing, on a
// white background; erase strokes are painted with the background.
// Play it back on any registered gg recording backend.
func Record(page ink.Page, size ink.Size) *recording.Recording {
	rec := recording.NewRecorder(size.Width, size.Height)
	rec.SetFillRGB(1, 1, 1)
	rec.FillRectangle(0, 0, float64(size.Width), float64(size.Height))
	rec.SetLineCap(recording.LineCapRound)
	rec.SetLineJoin(recording.LineJoinRound)

	for _, s := range page {
		if s.Validate() != nil {
			continue
		}
		c := gg.White
		if s.Mode != ink.ModeErase {
			c = gg.Hex(colorOf(s))
		}

		first := s.Segments[0].Point
		if len(s.Segments) == 1 {
			rec.SetFillRGBA(c.R, c.G, c.B, c.A)
			rec.DrawCircle(first.X, first.Y, s.Weight/2)
			rec.Fill()
			continue
		}
		rec.SetStrokeRGBA(c.R, c.G, c.B, c.A)
		rec.SetLineWidth(s.Weight)
		rec.MoveTo(first.X, first.Y)
		for _, seg := range s.Segments[1:] {
			rec.LineTo(seg.Point.X, seg.Point.Y)
		}
		rec.Stroke()
	}
	return rec.FinishRecording()
}

// recordingExporter plays Record's output back on a gg recording backend
// that can write itself out.
type recordingExporter struct {
	backend string
}

func (recordingExporter) ContentType() string { return "image/png" }

func (e recordingExporter) Export(ctx context.Context, w io.Writer, rec *ink.Recordings, opts Options) error {
	page, err := rec.Page(opts.Page)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := recording.NewBackend(e.backend)
	if err != nil {
		return err
	}
	wb, ok := b.(recording.WriterBackend)
	if !ok {
		return fmt.Errorf("export: backend %q cannot write output", e.backend)
	}
	if err := Record(page, opts.size()).Playback(b); err != nil {
		return fmt.Errorf("export: playback: %w", err)
	}
	_, err = wb.WriteTo(w)
	return err
}
