package overlay

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/document"
	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
	"github.com/listenupapp/inkmark/internal/media/images"
)

var letter = geometry.Size{Width: 612, Height: 792}

func setupRenderer(t *testing.T) *Renderer {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	return NewRenderer(images.NewProcessor(log), log)
}

func signatureAsset(t *testing.T) *domain.Asset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := range 40 {
		img.Set(x, 10, image.Black.C)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &domain.Asset{MediaType: domain.MediaTypePNG, Data: buf.Bytes(), Width: 40, Height: 20}
}

func decodePreview(t *testing.T, asset *domain.Asset) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(asset.Data))
	require.NoError(t, err)
	return img
}

func alphaAt(img image.Image, x, y int) uint32 {
	_, _, _, a := img.At(x, y).RGBA()
	return a
}

func TestRenderer_PreviewDrawsHighlight(t *testing.T) {
	r := setupRenderer(t)
	page := Page{
		Box: letter,
		Annotations: []domain.Annotation{
			{ID: "ann-1", Position: domain.Position{X: 100, Y: 100}, Markup: domain.Highlight{Color: "#FFDE17"}},
		},
	}

	asset, err := r.Preview(context.Background(), page, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 612, asset.Width, 1)
	assert.InDelta(t, 792, asset.Height, 1)

	img := decodePreview(t, asset)
	assert.NotZero(t, alphaAt(img, 148, 108), "inside the highlight")
	assert.Zero(t, alphaAt(img, 300, 500), "page background is transparent")
}

func TestRenderer_PreviewScales(t *testing.T) {
	r := setupRenderer(t)
	page := Page{
		Box: letter,
		Annotations: []domain.Annotation{
			{ID: "ann-1", Position: domain.Position{X: 100, Y: 100}, Markup: domain.CommentPin{Color: "#34C759"}},
		},
	}

	asset, err := r.Preview(context.Background(), page, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 1224, asset.Width, 1)

	img := decodePreview(t, asset)
	// Pin center sits at (116, 116) document units, (232, 232) pixels at 2x.
	assert.NotZero(t, alphaAt(img, 232, 232))
	assert.Zero(t, alphaAt(img, 116, 116))
}

func TestRenderer_PreviewDrawsSignature(t *testing.T) {
	r := setupRenderer(t)
	page := Page{
		Box: letter,
		Annotations: []domain.Annotation{{
			ID:       "ann-1",
			Position: domain.Position{X: 50, Y: 50},
			Markup:   domain.SignatureStamp{Asset: signatureAsset(t), Size: geometry.Size{Width: 200, Height: 100}},
		}},
	}

	asset, err := r.Preview(context.Background(), page, 1.0)
	require.NoError(t, err)

	// The 40x20 image fills the 200x100 box; its line at row 10 lands at y=50+50.
	img := decodePreview(t, asset)
	assert.NotZero(t, alphaAt(img, 150, 102))
}

func TestRenderer_PreviewRejectsBadScale(t *testing.T) {
	_, err := setupRenderer(t).Preview(context.Background(), Page{Box: letter}, 0)
	assert.Error(t, err)
}

func TestRenderer_WritePDF(t *testing.T) {
	r := setupRenderer(t)
	pages := []Page{
		{Box: letter, Annotations: []domain.Annotation{
			{ID: "ann-1", Position: domain.Position{X: 72, Y: 72}, Markup: domain.Underline{Color: "#0A84FF"}},
		}},
		{Box: geometry.Size{Width: 595, Height: 842}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.WritePDF(context.Background(), &buf, pages))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	doc, err := document.NewPDFBackend().Load(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())

	box, err := doc.PageBox(1)
	require.NoError(t, err)
	assert.InDelta(t, 595, box.Width, 0.5)
	assert.InDelta(t, 842, box.Height, 0.5)
}

func TestRenderer_WritePDFNoPages(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, setupRenderer(t).WritePDF(context.Background(), &buf, nil))
}
