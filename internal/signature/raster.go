package signature

import (
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/media/images"
)

// RasterConfig configures stroke rendering.
type RasterConfig struct {
	// PixelRatio is device pixels per display unit.
	PixelRatio  float64
	StrokeWidth float64
	StrokeColor color.Color
}

// DefaultRasterConfig draws 2px black strokes at 2x.
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{PixelRatio: 2, StrokeWidth: 2, StrokeColor: canvas.Black}
}

// RasterSurface paints strokes onto a vector canvas and rasterizes it on Encode.
// One canvas unit is one display unit; rasterizing at PixelRatio dots per unit
// yields the device-resolution image.
type RasterSurface struct {
	cfg       RasterConfig
	processor *images.Processor
	size      geometry.Size
	canvas    *canvas.Canvas
	ctx       *canvas.Context
	segments  int
}

// NewRasterSurface creates an empty surface. Call Reset before painting.
func NewRasterSurface(cfg RasterConfig, processor *images.Processor) *RasterSurface {
	return &RasterSurface{cfg: cfg, processor: processor}
}

// Reset implements Surface.
func (s *RasterSurface) Reset(size geometry.Size) {
	s.size = size
	s.segments = 0
	if size.Width <= 0 || size.Height <= 0 {
		s.canvas, s.ctx = nil, nil
		return
	}

	s.canvas = canvas.New(size.Width, size.Height)
	s.ctx = canvas.NewContext(s.canvas)
	s.ctx.SetFillColor(canvas.Transparent)
	s.ctx.SetStrokeColor(s.cfg.StrokeColor)
	s.ctx.SetStrokeWidth(s.cfg.StrokeWidth)
	s.ctx.SetStrokeCapper(canvas.RoundCap)
	s.ctx.SetStrokeJoiner(canvas.RoundJoin)
}

// Segment implements Surface. Each segment is stroked as soon as it arrives.
func (s *RasterSurface) Segment(from, to geometry.Point) {
	if s.ctx == nil {
		return
	}
	// Canvas is y-up; surface coordinates are y-down.
	s.ctx.MoveTo(from.X, s.size.Height-from.Y)
	s.ctx.LineTo(to.X, s.size.Height-to.Y)
	s.ctx.Stroke()
	s.segments++
}

// Segments returns the number of segments painted since the last Reset.
func (s *RasterSurface) Segments() int {
	return s.segments
}

// Encode implements Surface.
func (s *RasterSurface) Encode() (*domain.Asset, error) {
	if s.canvas == nil {
		return nil, fmt.Errorf("surface has not been sized")
	}
	img := rasterizer.Draw(s.canvas, canvas.DPMM(s.cfg.PixelRatio), canvas.DefaultColorSpace)
	return s.processor.Process(img)
}
