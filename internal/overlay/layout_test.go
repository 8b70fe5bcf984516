package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
)

func TestPlace(t *testing.T) {
	records := []domain.Annotation{
		{ID: "ann-1", Position: domain.Position{X: 120, Y: 80, Page: 1}, Markup: domain.Highlight{Color: "#FFDE17"}},
		{ID: "ann-2", Position: domain.Position{X: 10, Y: 20, Page: 1}, Markup: domain.SignatureStamp{Size: geometry.Size{Width: 200, Height: 100}}},
		{ID: "ann-3", Position: domain.Position{X: 5, Y: 5, Page: 1}, Markup: domain.CommentPin{Color: "#34C759"}},
	}

	got := Place(records, 2.0)
	require.Len(t, got, 3)

	assert.Equal(t, "ann-1", got[0].Annotation.ID)
	assert.Equal(t, geometry.Point{X: 240, Y: 160}, got[0].Origin)
	assert.Equal(t, HighlightSize.Scale(2), got[0].Size)

	assert.Equal(t, geometry.Point{X: 20, Y: 40}, got[1].Origin)
	assert.Equal(t, geometry.Size{Width: 400, Height: 200}, got[1].Size, "signature boxes scale with the page")

	assert.Equal(t, geometry.Size{Width: 64, Height: 64}, got[2].Size)
}

func TestPlace_TracksScale(t *testing.T) {
	records := []domain.Annotation{
		{ID: "ann-1", Position: domain.Position{X: 33.3, Y: 71.1}, Markup: domain.Underline{Color: "#0A84FF"}},
	}

	for _, s := range []float64{0.5, 0.8, 1.0, 1.9, 3.0} {
		p := Place(records, s)[0]
		assert.InDelta(t, 33.3*s, p.Origin.X, 1e-9)
		assert.InDelta(t, 71.1*s, p.Origin.Y, 1e-9)
	}
}

func TestMarkerSize_StampWithoutBoxUsesDefault(t *testing.T) {
	a := domain.Annotation{Markup: domain.SignatureStamp{}}
	assert.Equal(t, DefaultStampBox, MarkerSize(a))
}
