// Package geometry converts between screen space (the rendered, possibly zoomed page)
// and document space (the unscaled page) and owns the zoom clamp.
package geometry

// Point is a position in either screen or document space; the caller knows which.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height in the same units as the Point it accompanies.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scale multiplies both dimensions by s.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// Rect is the on-screen bounding box of a rendered page surface.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Origin returns the rect's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// PointerEvent is a click or tap in viewport coordinates.
type PointerEvent struct {
	ClientX float64 `json:"client_x"`
	ClientY float64 `json:"client_y"`
}

// ToDocument maps a pointer event over page to document space at the given scale.
// No rounding is applied. scale must be positive.
func ToDocument(ev PointerEvent, page Rect, scale float64) Point {
	return Point{
		X: (ev.ClientX - page.Left) / scale,
		Y: (ev.ClientY - page.Top) / scale,
	}
}

// ToScreen maps a document-space point to page-local screen space at the given scale.
func ToScreen(p Point, scale float64) Point {
	return Point{X: p.X * scale, Y: p.Y * scale}
}
