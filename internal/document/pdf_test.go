package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/document/pdftest"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/geometry"
)

func TestPDFBackend_Load(t *testing.T) {
	data := pdftest.Build(
		pdftest.Page{},
		pdftest.Page{Width: 595, Height: 842},
		pdftest.Page{Width: 612, Height: 792, Rotate: 90},
	)

	doc, err := NewPDFBackend().Load(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())

	tests := []struct {
		name string
		page int
		want geometry.Size
	}{
		{"inherits tree mediabox", 0, geometry.Size{Width: 612, Height: 792}},
		{"own mediabox", 1, geometry.Size{Width: 595, Height: 842}},
		{"rotated page swaps sides", 2, geometry.Size{Width: 792, Height: 612}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, err := doc.PageBox(tt.page)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Width, box.Width, 1e-9)
			assert.InDelta(t, tt.want.Height, box.Height, 1e-9)
		})
	}
}

func TestPDFBackend_LoadFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello, this is plain text")},
		{"truncated", pdftest.Build(pdftest.Pages(2)...)[:60]},
		{"page wider than user space", pdftest.Build(pdftest.Page{Width: MaxPageSide + 1, Height: 792})},
		{"huge page box", pdftest.Build(pdftest.Pages(1)[0], pdftest.Page{Width: 200000, Height: 200000})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewPDFBackend().Load(context.Background(), tt.data)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, domainerrors.ErrDocument)
		})
	}
}

func TestPDFBackend_LoadLargestPage(t *testing.T) {
	doc, err := NewPDFBackend().Load(context.Background(),
		pdftest.Build(pdftest.Page{Width: MaxPageSide, Height: MaxPageSide}))
	require.NoError(t, err)

	box, err := doc.PageBox(0)
	require.NoError(t, err)
	assert.InDelta(t, MaxPageSide, box.Width, 1e-9)
}

func TestPDFBackend_LoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPDFBackend().Load(ctx, pdftest.Build(pdftest.Pages(3)...))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDFDocument_RenderPage(t *testing.T) {
	doc, err := NewPDFBackend().Load(context.Background(), pdftest.Build(pdftest.Pages(5)...))
	require.NoError(t, err)

	surface, err := doc.RenderPage(context.Background(), 1, 2.0)
	require.NoError(t, err)
	assert.Equal(t, &Surface{PageIndex: 1, Scale: 2.0, Width: 1224, Height: 1584}, surface)

	_, err = doc.RenderPage(context.Background(), 5, 1.0)
	assert.ErrorIs(t, err, domainerrors.ErrInvariant)

	_, err = doc.RenderPage(context.Background(), -1, 1.0)
	assert.ErrorIs(t, err, domainerrors.ErrInvariant)

	_, err = doc.RenderPage(context.Background(), 0, 0)
	assert.ErrorIs(t, err, domainerrors.ErrDocument)
}
