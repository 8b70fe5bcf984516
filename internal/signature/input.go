package signature

import "github.com/listenupapp/inkmark/internal/geometry"

// Modality is the device that produced a pointer input.
type Modality string

// Input modalities.
const (
	ModalityMouse Modality = "mouse"
	ModalityTouch Modality = "touch"
)

// Input is a raw pointer sample over the capture surface.
// Mouse samples carry surface-local offsets; touch samples carry viewport coordinates.
type Input struct {
	Modality Modality `json:"modality"`
	OffsetX  float64  `json:"offset_x"`
	OffsetY  float64  `json:"offset_y"`
	ClientX  float64  `json:"client_x"`
	ClientY  float64  `json:"client_y"`
}

// Local returns the sample in surface-local coordinates given the surface's viewport origin.
func (in Input) Local(origin geometry.Point) geometry.Point {
	if in.Modality == ModalityTouch {
		return geometry.Point{X: in.ClientX - origin.X, Y: in.ClientY - origin.Y}
	}
	return geometry.Point{X: in.OffsetX, Y: in.OffsetY}
}
