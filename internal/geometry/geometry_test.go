package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDocument(t *testing.T) {
	page := Rect{Left: 40, Top: 100, Width: 612, Height: 792}

	tests := []struct {
		name  string
		event PointerEvent
		scale float64
		want  Point
	}{
		{"unscaled", PointerEvent{ClientX: 160, ClientY: 180}, 1.0, Point{X: 120, Y: 80}},
		{"zoomed in", PointerEvent{ClientX: 280, ClientY: 260}, 2.0, Point{X: 120, Y: 80}},
		{"zoomed out", PointerEvent{ClientX: 100, ClientY: 140}, 0.5, Point{X: 120, Y: 80}},
		{"fractional result is kept", PointerEvent{ClientX: 41, ClientY: 101}, 3.0, Point{X: 1.0 / 3.0, Y: 1.0 / 3.0}},
		{"left of page goes negative", PointerEvent{ClientX: 30, ClientY: 100}, 1.0, Point{X: -10, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDocument(tt.event, page, tt.scale)
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
		})
	}
}

func TestToScreen_TracksEveryScale(t *testing.T) {
	doc := Point{X: 120, Y: 80}

	for s := DefaultMinZoom; s <= DefaultMaxZoom+1e-9; s += 0.05 {
		got := ToScreen(doc, s)
		assert.InDelta(t, doc.X*s, got.X, 1e-9)
		assert.InDelta(t, doc.Y*s, got.Y, 1e-9)
	}
}

func TestRoundTrip(t *testing.T) {
	page := Rect{Left: 12.5, Top: 7.25}
	ev := PointerEvent{ClientX: 333.3, ClientY: 512.9}

	for _, created := range []float64{0.5, 1.0, 1.7, 3.0} {
		doc := ToDocument(ev, page, created)
		screen := ToScreen(doc, created)
		assert.InDelta(t, ev.ClientX-page.Left, screen.X, 1e-9)
		assert.InDelta(t, ev.ClientY-page.Top, screen.Y, 1e-9)
	}
}

func TestSize_Scale(t *testing.T) {
	assert.Equal(t, Size{Width: 400, Height: 200}, Size{Width: 200, Height: 100}.Scale(2))
}

func TestRect_Origin(t *testing.T) {
	assert.Equal(t, Point{X: 3, Y: 4}, Rect{Left: 3, Top: 4, Width: 10, Height: 10}.Origin())
}
