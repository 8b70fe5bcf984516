// Package domain contains the annotation, comment, and signature asset types shared by the engine and its API.
package domain

import (
	"encoding/json"
	"time"

	"github.com/listenupapp/inkmark/internal/geometry"
)

// Kind is the closed set of annotation types.
type Kind string

// Annotation kinds.
const (
	KindHighlight Kind = "highlight"
	KindUnderline Kind = "underline"
	KindComment   Kind = "comment"
	KindSignature Kind = "signature"
)

// Position is a document-space point plus the zero-based page it sits on.
type Position struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Page int     `json:"page"`
}

// Point drops the page index.
func (p Position) Point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// Markup is the per-kind payload of an annotation. The set of implementations is closed.
type Markup interface {
	Kind() Kind
	markup()
}

// Highlight marks a point with a translucent color block.
type Highlight struct {
	Color string
}

// Underline marks a point with a colored rule.
type Underline struct {
	Color string
}

// CommentPin marks a point that owns a comment thread.
type CommentPin struct {
	Color string
}

// SignatureStamp places a captured signature asset in a box sized in document units.
type SignatureStamp struct {
	Asset *Asset
	Size  geometry.Size
}

// Kind implements Markup.
func (Highlight) Kind() Kind { return KindHighlight }

// Kind implements Markup.
func (Underline) Kind() Kind { return KindUnderline }

// Kind implements Markup.
func (CommentPin) Kind() Kind { return KindComment }

// Kind implements Markup.
func (SignatureStamp) Kind() Kind { return KindSignature }

func (Highlight) markup()      {}
func (Underline) markup()      {}
func (CommentPin) markup()     {}
func (SignatureStamp) markup() {}

// Annotation is a positioned markup record. Fields are set once at creation.
type Annotation struct {
	ID        string
	Position  Position
	Markup    Markup
	CreatedAt time.Time
}

// Kind returns the markup kind.
func (a Annotation) Kind() Kind {
	return a.Markup.Kind()
}

// Color returns the markup color. Signatures have none.
func (a Annotation) Color() (string, bool) {
	switch m := a.Markup.(type) {
	case Highlight:
		return m.Color, true
	case Underline:
		return m.Color, true
	case CommentPin:
		return m.Color, true
	default:
		return "", false
	}
}

// Box returns the document-space size for box-rendered kinds.
func (a Annotation) Box() (geometry.Size, bool) {
	if s, ok := a.Markup.(SignatureStamp); ok {
		return s.Size, true
	}
	return geometry.Size{}, false
}

// AnnotationView is the flat wire shape shared by API responses and SSE payloads.
type AnnotationView struct {
	ID        string    `json:"id"`
	Type      Kind      `json:"type"`
	Color     string    `json:"color,omitempty"`
	Position  Position  `json:"position"`
	Content   string    `json:"content,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Height    float64   `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// View flattens the markup variant into type/color/content/width/height.
func (a Annotation) View() AnnotationView {
	out := AnnotationView{
		ID:        a.ID,
		Type:      a.Kind(),
		Position:  a.Position,
		CreatedAt: a.CreatedAt,
	}
	out.Color, _ = a.Color()
	if s, ok := a.Markup.(SignatureStamp); ok {
		out.Content = s.Asset.DataURL()
		out.Width = s.Size.Width
		out.Height = s.Size.Height
	}
	return out
}

// MarshalJSON encodes the annotation as its View.
func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.View())
}
