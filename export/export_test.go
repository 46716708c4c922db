// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gg/recording"

	"github.com/gogpu/ink"
)

var testSize = ink.Size{Width: 120, Height: 80}

func sample() *ink.Recordings {
	line := ink.NewStroke(ink.Style{Weight: 8, Mode: ink.ModeDraw, Color: "#000000"},
		ink.Segment{Point: ink.Pt(10, 40), Time: 0},
		ink.Segment{Point: ink.Pt(60, 40), Time: 100},
		ink.Segment{Point: ink.Pt(110, 40), Time: 200})
	dot := ink.NewStroke(ink.DefaultStyle(6), ink.Segment{Point: ink.Pt(20, 10)})
	erase := ink.NewStroke(ink.Style{Weight: 20, Mode: ink.ModeErase},
		ink.Segment{Point: ink.Pt(100, 40), Time: 0},
		ink.Segment{Point: ink.Pt(110, 40), Time: 10})
	return ink.NewRecordingsFromPages(ink.Page{line, dot, erase}, ink.Page{dot})
}

func TestFormats(t *testing.T) {
	got := Formats()
	for _, name := range []string{"pdf", "png", "raster"} {
		if !slices.Contains(got, name) {
			t.Errorf("format %q not registered: %v", name, got)
		}
	}
	if !slices.IsSorted(got) {
		t.Errorf("Formats() not sorted: %v", got)
	}
	if _, err := New("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("New(gif) = %v, want ErrUnknownFormat", err)
	}
}

type nopExporter struct{}

func (nopExporter) ContentType() string { return "text/plain" }
func (nopExporter) Export(context.Context, io.Writer, *ink.Recordings, Options) error {
	return nil
}

func TestRegister(t *testing.T) {
	Register("test-nop", nopExporter{})
	t.Cleanup(func() {
		formats.Lock()
		delete(formats.m, "test-nop")
		formats.Unlock()
	})
	if e, err := New("test-nop"); err != nil || e.ContentType() != "text/plain" {
		t.Errorf("New(test-nop) = %v, %v", e, err)
	}

	tests := []struct {
		name string
		e    Exporter
	}{
		{"test-nop", nopExporter{}},
		{"test-nil", nil},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) did not panic", tt.name)
				}
			}()
			Register(tt.name, tt.e)
		}()
	}
}

func TestPNGExport(t *testing.T) {
	e, err := New("png")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := e.Export(context.Background(), &buf, sample(), Options{Size: testSize}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("bounds = %v", b)
	}
	if r, _, _, _ := img.At(40, 40).RGBA(); r > 0x4000 {
		t.Errorf("line pixel red = %#x, want dark", r)
	}
	if r, _, _, _ := img.At(108, 40).RGBA(); r < 0xc000 {
		t.Errorf("erased pixel red = %#x, want white", r)
	}
	if r, _, _, _ := img.At(60, 70).RGBA(); r < 0xf000 {
		t.Errorf("background red = %#x, want white", r)
	}

	if err := e.Export(context.Background(), io.Discard, sample(), Options{Page: 5}); !errors.Is(err, ink.ErrPageOutOfRange) {
		t.Errorf("missing page = %v, want ErrPageOutOfRange", err)
	}
}

func TestPDFExport(t *testing.T) {
	e, err := New("pdf")
	if err != nil {
		t.Fatal(err)
	}
	if e.ContentType() != "application/pdf" {
		t.Errorf("ContentType() = %q", e.ContentType())
	}
	var buf bytes.Buffer
	if err := e.Export(context.Background(), &buf, sample(), Options{Size: testSize}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("output is not a PDF: %q", out[:min(len(out), 16)])
	}
	pages := strings.Count(out, "/Type /Page") - strings.Count(out, "/Type /Pages")
	if pages != 2 {
		t.Errorf("pdf has %d pages, want 2", pages)
	}
}

func TestPDFExportCancelled(t *testing.T) {
	e, _ := New("pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Export(ctx, io.Discard, sample(), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Export() = %v, want context.Canceled", err)
	}
}

func TestRecord(t *testing.T) {
	page, _ := sample().Page(0)
	rec := Record(page, testSize)
	if rec.Width() != 120 || rec.Height() != 80 {
		t.Errorf("recording size = %dx%d", rec.Width(), rec.Height())
	}

	var strokes, fills int
	for _, cmd := range rec.Commands() {
		switch cmd.(type) {
		case recording.StrokePathCommand:
			strokes++
		case recording.FillPathCommand, recording.FillRectCommand:
			fills++
		}
	}
	// Line and eraser are stroked; background and dot are filled.
	if strokes != 2 || fills != 2 {
		t.Errorf("strokes=%d fills=%d, want 2 and 2", strokes, fills)
	}
}

func TestRasterExport(t *testing.T) {
	e, err := New("raster")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := e.Export(context.Background(), &buf, sample(), Options{Size: testSize, Page: 1}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(20, 10).RGBA(); r > 0x4000 {
		t.Errorf("dot pixel red = %#x, want dark", r)
	}
}

func TestRenderPage(t *testing.T) {
	r, err := RenderPage(context.Background(), sample(), 1, testSize)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	if r.Size() != testSize {
		t.Errorf("Size() = %+v", r.Size())
	}
}
