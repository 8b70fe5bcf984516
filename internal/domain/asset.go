package domain

import "encoding/base64"

// MediaTypePNG is the media type of captured signatures.
const MediaTypePNG = "image/png"

// Asset is an encoded raster image. Treat it as immutable once attached to an annotation.
type Asset struct {
	MediaType string `json:"media_type"`
	Data      []byte `json:"-"`
	// Pixel dimensions of the encoded image.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Placeholder is a BlurHash of the image for clients that load the data lazily.
	Placeholder string `json:"placeholder,omitempty"`
}

// DataURL returns the asset as an RFC 2397 data URL.
func (a *Asset) DataURL() string {
	if a == nil || len(a.Data) == 0 {
		return ""
	}
	return "data:" + a.MediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
