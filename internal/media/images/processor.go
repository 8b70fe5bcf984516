// Package images encodes captured rasters into assets and decodes assets for compositing.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"golang.org/x/image/draw"

	"github.com/listenupapp/inkmark/internal/domain"
)

// Processor turns rendered images into immutable assets.
type Processor struct {
	encoder *png.Encoder
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(logger *slog.Logger) *Processor {
	return &Processor{
		encoder: &png.Encoder{CompressionLevel: png.BestCompression},
		logger:  logger,
	}
}

// Process encodes img as PNG and attaches a BlurHash placeholder.
// A placeholder failure is logged and leaves Placeholder empty.
func (p *Processor) Process(img image.Image) (*domain.Asset, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image is empty")
	}

	var buf bytes.Buffer
	if err := p.encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	asset := &domain.Asset{
		MediaType: domain.MediaTypePNG,
		Data:      buf.Bytes(),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		p.logger.Warn("failed to compute placeholder", "error", err)
	} else {
		asset.Placeholder = hash
	}

	p.logger.Debug("encoded asset",
		"media_type", asset.MediaType,
		"width", asset.Width,
		"height", asset.Height,
		"size", len(asset.Data),
	)

	return asset, nil
}

// Decode decodes a PNG asset's data into an image.
func Decode(asset *domain.Asset) (image.Image, error) {
	if asset == nil || len(asset.Data) == 0 {
		return nil, fmt.Errorf("asset has no data")
	}
	img, _, err := image.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", asset.MediaType, err)
	}
	return img, nil
}

// Thumbnail scales img so its longest side is at most maxSide, keeping aspect ratio.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	dw, dh := maxSide, maxSide
	if w > h {
		dh = max(1, h*maxSide/w)
	} else {
		dw = max(1, w*maxSide/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
