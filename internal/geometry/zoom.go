package geometry

import "math"

// Zoom defaults.
const (
	DefaultZoomStep = 0.1
	DefaultMinZoom  = 0.5
	DefaultMaxZoom  = 3.0
	ResetZoom       = 1.0
)

// Zoom steps a scale within [Min, Max].
type Zoom struct {
	Step float64
	Min  float64
	Max  float64
}

// DefaultZoom returns the 0.1 step clamped to [0.5, 3.0].
func DefaultZoom() Zoom {
	return Zoom{Step: DefaultZoomStep, Min: DefaultMinZoom, Max: DefaultMaxZoom}
}

// In returns scale + Step, clamped to Max.
func (z Zoom) In(scale float64) float64 {
	return z.Clamp(snap(scale + z.Step))
}

// Out returns scale - Step, clamped to Min.
func (z Zoom) Out(scale float64) float64 {
	return z.Clamp(snap(scale - z.Step))
}

// Reset always returns exactly 1.0.
func (z Zoom) Reset() float64 {
	return ResetZoom
}

// Clamp bounds scale to [Min, Max].
func (z Zoom) Clamp(scale float64) float64 {
	return math.Min(math.Max(scale, z.Min), z.Max)
}

// snap drops binary drift from repeated decimal steps so ten steps
// from 1.0 land on 2.0 exactly.
func snap(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
