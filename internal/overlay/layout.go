// Package overlay lays annotations out in screen space and draws them onto blank pages
// for export and previews. It never modifies the source document.
package overlay

import (
	"github.com/listenupapp/inkmark/internal/domain"
	"github.com/listenupapp/inkmark/internal/geometry"
)

// Marker sizes in document units, used where a kind has no box of its own.
var (
	HighlightSize   = geometry.Size{Width: 96, Height: 16}
	UnderlineSize   = geometry.Size{Width: 96, Height: 2}
	CommentPinSize  = geometry.Size{Width: 32, Height: 32}
	DefaultStampBox = geometry.Size{Width: 200, Height: 100}
)

// Placement is an annotation positioned on the rendered page.
type Placement struct {
	Annotation domain.Annotation `json:"annotation"`
	// Origin is the top-left corner in page-local screen space.
	Origin geometry.Point `json:"origin"`
	// Size is the marker or box size at the same scale.
	Size geometry.Size `json:"size"`
}

// Place maps records to screen space at scale, keeping their order.
func Place(records []domain.Annotation, scale float64) []Placement {
	out := make([]Placement, 0, len(records))
	for _, a := range records {
		out = append(out, Placement{
			Annotation: a,
			Origin:     geometry.ToScreen(a.Position.Point(), scale),
			Size:       MarkerSize(a).Scale(scale),
		})
	}
	return out
}

// MarkerSize returns the unscaled size an annotation occupies.
func MarkerSize(a domain.Annotation) geometry.Size {
	switch m := a.Markup.(type) {
	case domain.SignatureStamp:
		if m.Size.Width > 0 && m.Size.Height > 0 {
			return m.Size
		}
		return DefaultStampBox
	case domain.Underline:
		return UnderlineSize
	case domain.CommentPin:
		return CommentPinSize
	default:
		return HighlightSize
	}
}
