// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/ink"
)

func init() {
	Register("pdf", pdfExporter{})
}

// pdfExporter writes every page as vector lines, one PDF page per ink
// page, with one point per pixel. Erase strokes are painted white.
type pdfExporter struct{}

func (pdfExporter) ContentType() string { return "application/pdf" }

func (pdfExporter) Export(ctx context.Context, w io.Writer, rec *ink.Recordings, opts Options) error {
	size := opts.size()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(size.Width), Ht: float64(size.Height)},
	})
	pdf.SetCreator("ink", true)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for i, page := range rec.Pages() {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		for _, s := range page {
			if s.Validate() != nil {
				continue
			}
			pdfStroke(pdf, s)
		}
		if pdf.Err() {
			return fmt.Errorf("export: pdf page %d: %w", i, pdf.Error())
		}
	}

	ink.Logger().Debug("export: pdf", "pages", rec.Len())
	return pdf.Output(w)
}

func pdfStroke(pdf *gofpdf.Fpdf, s ink.Stroke) {
	r, g, b := 255, 255, 255
	if s.Mode != ink.ModeErase {
		r, g, b = rgb8(gg.Hex(colorOf(s)))
	}
	pdf.SetDrawColor(r, g, b)
	pdf.SetFillColor(r, g, b)
	pdf.SetLineWidth(s.Weight)

	first := s.Segments[0].Point
	if len(s.Segments) == 1 {
		pdf.Circle(first.X, first.Y, s.Weight/2, "F")
		return
	}
	pdf.MoveTo(first.X, first.Y)
	for _, seg := range s.Segments[1:] {
		pdf.LineTo(seg.Point.X, seg.Point.Y)
	}
	pdf.DrawPath("D")
}

func colorOf(s ink.Stroke) string {
	if s.Color == "" {
		return ink.DefaultColor
	}
	return s.Color
}

func rgb8(c gg.RGBA) (int, int, int) {
	to := func(v float64) int { return int(math.Round(min(max(v, 0), 1) * 255)) }
	return to(c.R), to(c.G), to(c.B)
}
