// Package document loads uploaded documents and answers page count and page geometry
// questions for the annotation engine. Rendering page content is left to clients.
package document

import (
	"context"

	"github.com/listenupapp/inkmark/internal/geometry"
)

// Backend decodes document bytes.
type Backend interface {
	Load(ctx context.Context, data []byte) (Document, error)
}

// Document is a loaded, paginated document.
type Document interface {
	// PageCount returns the number of pages, at least 1.
	PageCount() int
	// PageBox returns the unscaled size of a zero-based page, in points.
	PageBox(pageIndex int) (geometry.Size, error)
	// RenderPage lays out a zero-based page at scale.
	RenderPage(ctx context.Context, pageIndex int, scale float64) (*Surface, error)
}

// Surface describes a page laid out at a scale: the box pointer events are measured against.
type Surface struct {
	PageIndex int     `json:"page_index"`
	Scale     float64 `json:"scale"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}
