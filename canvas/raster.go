// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/ink"
)

// ErrClosed is returned by operations on a closed Raster.
var ErrClosed = errors.New("canvas: raster is closed")

// adaptiveDistance is the segment length, in pixels, at which an adaptive
// stroke is drawn at two thirds of its weight.
const adaptiveDistance = 24.0

// Raster is an ink.Surface backed by a gg.Context.
//
// Ink is kept on a transparent layer so erase strokes can remove it; the
// background is composited only when the raster is read through Snapshot,
// EncodePNG or Thumbnail.
//
// Example:
//
//	r := canvas.NewRaster(canvas.WithBackground(gg.White))
//	defer r.Close()
//
//	board := ink.NewBoard(r, recordings, ink.WithClock(ink.InstantClock()))
//	board.Mount(ink.Size{Width: 800, Height: 1000})
//	board.Wait()
//	r.EncodePNG(w)
//
// Raster is safe for concurrent use.
type Raster struct {
	mu sync.Mutex

	dc   *gg.Context // ink layer
	mask *gg.Context // scratch coverage for erase strokes
	size ink.Size

	background gg.RGBA
	style      ink.Style
	color      gg.RGBA

	// target is where the last segment was heading. Smoothing may leave
	// the pen short of it until EndStroke.
	target ink.Point
	drawn  bool

	input  bool
	closed bool
}

var _ ink.Surface = (*Raster)(nil)

// NewRaster creates an unsized raster. Resize must be called before
// drawing; ink.Board does so on Mount.
func NewRaster(opts ...Option) *Raster {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Raster{
		background: o.background,
		input:      true,
	}
	r.applyStyle(ink.DefaultStyle(ink.MinPenWeight))
	if o.size.Width > 0 && o.size.Height > 0 {
		r.dc = gg.NewContext(o.size.Width, o.size.Height)
		r.mask = gg.NewContext(o.size.Width, o.size.Height)
		r.size = o.size
	}
	return r
}

func (r *Raster) check() error {
	if r.closed {
		return ErrClosed
	}
	if r.dc == nil {
		return ink.ErrNotMounted
	}
	return nil
}

// Resize sets the raster size, discarding its content when the size changes.
func (r *Raster) Resize(size ink.Size) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("canvas: invalid size %dx%d", size.Width, size.Height)
	}
	if r.dc == nil {
		r.dc = gg.NewContext(size.Width, size.Height)
		r.mask = gg.NewContext(size.Width, size.Height)
	} else {
		if err := r.dc.Resize(size.Width, size.Height); err != nil {
			return err
		}
		if err := r.mask.Resize(size.Width, size.Height); err != nil {
			return err
		}
	}
	r.size = size
	ink.Logger().Debug("canvas: resized", "width", size.Width, "height", size.Height)
	return nil
}

// Size returns the current raster size.
func (r *Raster) Size() ink.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Clear removes all ink.
func (r *Raster) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	r.dc.Clear()
	r.drawn = false
	return nil
}

// SetStyle sets the pen for subsequent strokes.
func (r *Raster) SetStyle(style ink.Style) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if style.Mode != "" && !style.Mode.Valid() {
		return fmt.Errorf("canvas: unknown mode %q", style.Mode)
	}
	r.applyStyle(style)
	return nil
}

func (r *Raster) applyStyle(style ink.Style) {
	if style.Color == "" {
		style.Color = ink.DefaultColor
	}
	if style.Weight <= 0 {
		style.Weight = ink.MinPenWeight
	}
	r.style = style
	r.color = gg.Hex(style.Color)
}

// BeginStroke starts a stroke at p.
func (r *Raster) BeginStroke(p ink.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	r.target = p
	r.drawn = false
	return nil
}

// DrawSegment draws from `from` towards `to`. With smoothing s the pen
// covers 1/(1+s) of the distance, so the line trails the pointer.
func (r *Raster) DrawSegment(from, to ink.Point) (ink.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return from, err
	}

	reached := smooth(from, to, r.style.Smoothing)
	if err := r.line(from, reached); err != nil {
		return from, err
	}
	r.target = to
	r.drawn = true
	return reached, nil
}

// EndStroke finishes the stroke at p. The pen is brought to the last
// segment target, and a stroke without segments is drawn as a dot.
func (r *Raster) EndStroke(p ink.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}

	var err error
	switch {
	case !r.drawn:
		err = r.dot(p)
	case p != r.target:
		err = r.line(p, r.target)
	}
	r.drawn = false
	return err
}

// SetInputEnabled records whether the host should deliver pointer input.
func (r *Raster) SetInputEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.input = enabled
}

// InputEnabled reports the last value passed to SetInputEnabled.
func (r *Raster) InputEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.input
}

// Close releases the gg contexts. Close is idempotent.
func (r *Raster) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if r.dc != nil {
		errs = append(errs, r.dc.Close(), r.mask.Close())
	}
	return errors.Join(errs...)
}

// width returns the pen width for a segment of the given length.
func (r *Raster) width(length float64) float64 {
	w := r.style.Weight
	if !r.style.AdaptiveStroke {
		return w
	}
	return w * max(0.5, 1/(1+length/(2*adaptiveDistance)))
}

func (r *Raster) line(from, to ink.Point) error {
	w := r.width(from.Distance(to))
	if r.style.Mode == ink.ModeErase {
		return r.erase(w, func(dc *gg.Context) error {
			strokeLine(dc, from, to, w)
			return dc.Stroke()
		}, from, to)
	}
	r.dc.SetColor(r.color.Color())
	strokeLine(r.dc, from, to, w)
	return r.dc.Stroke()
}

func (r *Raster) dot(p ink.Point) error {
	w := r.style.Weight
	if r.style.Mode == ink.ModeErase {
		return r.erase(w, func(dc *gg.Context) error {
			dc.DrawCircle(p.X, p.Y, w/2)
			return dc.Fill()
		}, p, p)
	}
	r.dc.SetColor(r.color.Color())
	r.dc.DrawCircle(p.X, p.Y, w/2)
	return r.dc.Fill()
}

func strokeLine(dc *gg.Context, from, to ink.Point, w float64) {
	dc.SetLineWidth(w)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(from.X, from.Y)
	dc.LineTo(to.X, to.Y)
}

// erase renders shape into the mask and removes its coverage from the
// ink layer (destination-out). Only the shape's bounding box is touched.
func (r *Raster) erase(w float64, shape func(*gg.Context) error, a, b ink.Point) error {
	r.mask.Clear()
	r.mask.SetColor(gg.Black.Color())
	if err := shape(r.mask); err != nil {
		return err
	}

	pad := w/2 + 2
	box := image.Rect(
		int(math.Floor(min(a.X, b.X)-pad)), int(math.Floor(min(a.Y, b.Y)-pad)),
		int(math.Ceil(max(a.X, b.X)+pad)), int(math.Ceil(max(a.Y, b.Y)+pad)),
	).Intersect(image.Rect(0, 0, r.size.Width, r.size.Height))

	dst := r.dc.ResizeTarget().Data()
	cov := r.mask.ResizeTarget().Data()
	stride := r.size.Width * 4
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			i := y*stride + x*4
			m := uint32(cov[i+3])
			if m == 0 {
				continue
			}
			keep := 255 - m
			for k := range 4 {
				dst[i+k] = uint8((uint32(dst[i+k])*keep + 127) / 255)
			}
		}
	}
	return nil
}

// smooth returns the point reached when moving from `from` towards `to`
// with the given smoothing factor.
func smooth(from, to ink.Point, s float64) ink.Point {
	if s <= 0 {
		return to
	}
	f := s / (1 + s)
	return from.Lerp(to, 1-f)
}

// Ink returns a copy of the transparent ink layer.
func (r *Raster) Ink() (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return nil, err
	}
	return r.dc.ResizeTarget().ToImage(), nil
}

// Snapshot returns the ink composited over the background.
func (r *Raster) Snapshot() (*image.RGBA, error) {
	layer, err := r.Ink()
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(layer.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(r.background.Color()), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	return out, nil
}

// EncodePNG writes the snapshot as PNG to w.
func (r *Raster) EncodePNG(w io.Writer) error {
	img, err := r.Snapshot()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Thumbnail returns the snapshot scaled to fit within maxW x maxH,
// preserving aspect ratio. Rasters already small enough are not enlarged.
func (r *Raster) Thumbnail(maxW, maxH int) (*image.RGBA, error) {
	img, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return Fit(img, maxW, maxH), nil
}

// Fit scales img to fit within maxW x maxH using Catmull-Rom resampling.
func Fit(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	scale := 1.0
	if maxW > 0 {
		scale = min(scale, float64(maxW)/float64(b.Dx()))
	}
	if maxH > 0 {
		scale = min(scale, float64(maxH)/float64(b.Dy()))
	}
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
