package overlay

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/media/images"
)

// ptToMM converts PDF points, the document unit, to canvas millimetres.
const ptToMM = 25.4 / 72

// highlightAlpha keeps highlighted text readable.
const highlightAlpha = 0x66

// Page is one page to draw: its unscaled box and the annotations on it.
type Page struct {
	Box         geometry.Size
	Annotations []domain.Annotation
}

// Renderer draws annotation overlays with tdewolff/canvas.
type Renderer struct {
	processor *images.Processor
	logger    *slog.Logger
}

// NewRenderer creates a Renderer. processor encodes previews.
func NewRenderer(processor *images.Processor, logger *slog.Logger) *Renderer {
	return &Renderer{processor: processor, logger: logger}
}

// WritePDF writes one overlay page per input page, each sized to its page box.
func (r *Renderer) WritePDF(ctx context.Context, w io.Writer, pages []Page) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to write")
	}

	var out *pdf.PDF
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := r.drawPage(page)
		if i == 0 {
			out = pdf.New(w, c.W, c.H, nil)
		} else {
			out.NewPage(c.W, c.H)
		}
		c.RenderTo(out)
	}
	return out.Close()
}

// Preview rasterizes one page's overlay at scale, so the image is page box × scale pixels.
func (r *Renderer) Preview(ctx context.Context, page Page, scale float64) (*domain.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("preview scale must be positive, got %g", scale)
	}
	c := r.drawPage(page)
	img := rasterizer.Draw(c, canvas.DPMM(scale/ptToMM), canvas.DefaultColorSpace)
	return r.processor.Process(img)
}

func (r *Renderer) drawPage(page Page) *canvas.Canvas {
	c := canvas.New(page.Box.Width*ptToMM, page.Box.Height*ptToMM)
	ctx := canvas.NewContext(c)

	for _, p := range Place(page.Annotations, ptToMM) {
		// Canvas is y-up; convert the top-left origin to a bottom-left one.
		x := p.Origin.X
		y := c.H - p.Origin.Y - p.Size.Height

		ctx.Push()
		switch m := p.Annotation.Markup.(type) {
		case domain.Highlight:
			fill := r.color(p.Annotation.ID, m.Color)
			ctx.SetStrokeColor(canvas.Transparent)
			ctx.SetFillColor(withAlpha(fill, highlightAlpha))
			ctx.DrawPath(x, y, canvas.Rectangle(p.Size.Width, p.Size.Height))
		case domain.Underline:
			ctx.SetStrokeColor(r.color(p.Annotation.ID, m.Color))
			ctx.SetStrokeWidth(p.Size.Height)
			ctx.MoveTo(x, y)
			ctx.LineTo(x+p.Size.Width, y)
			ctx.Stroke()
		case domain.CommentPin:
			radius := p.Size.Width / 2
			ctx.SetStrokeColor(canvas.Transparent)
			ctx.SetFillColor(r.color(p.Annotation.ID, m.Color))
			ctx.DrawPath(x+radius, y+radius, canvas.Circle(radius))
		case domain.SignatureStamp:
			r.drawStamp(ctx, p.Annotation.ID, m, x, y, p.Size)
		}
		ctx.Pop()
	}
	return c
}

// drawStamp fits the signature image inside its box without distortion, centered.
func (r *Renderer) drawStamp(ctx *canvas.Context, annotationID string, stamp domain.SignatureStamp, x, y float64, box geometry.Size) {
	img, err := images.Decode(stamp.Asset)
	if err != nil {
		r.logger.Warn("skipping signature without a decodable asset", "annotation_id", annotationID, "error", err)
		return
	}
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	mmPerPx := min(box.Width/iw, box.Height/ih)
	dx := (box.Width - iw*mmPerPx) / 2
	dy := (box.Height - ih*mmPerPx) / 2
	ctx.DrawImage(x+dx, y+dy, img, canvas.DPMM(1/mmPerPx))
}

func (r *Renderer) color(annotationID, value string) color.RGBA {
	c, ok := ParseColor(value)
	if !ok {
		r.logger.Warn("unknown annotation color, drawing in black", "annotation_id", annotationID, "color", value)
		return color.RGBA{A: 0xff}
	}
	return c
}
