// Package signature implements the freehand signature capture surface.
package signature

import (
	"github.com/listenupapp/inkmark/internal/domain"
	domainerrors "github.com/listenupapp/inkmark/internal/errors"
	"github.com/listenupapp/inkmark/internal/geometry"
)

// State is the capture lifecycle state.
type State string

// Capture states.
const (
	StateIdle     State = "idle"
	StateDrawing  State = "drawing"
	StateCaptured State = "captured"
)

// Surface is the paintable target behind a capture session.
type Surface interface {
	// Reset discards all content and resizes the surface to size, in display units.
	Reset(size geometry.Size)
	// Segment paints a line from one local point to another.
	Segment(from, to geometry.Point)
	// Encode rasterizes the current content.
	Encode() (*domain.Asset, error)
}

// DefaultMaxBox bounds the displayed surface size when no limit is given.
var DefaultMaxBox = geometry.Size{Width: 2048, Height: 2048}

// Capture is a single-owner capture session. It is not safe for concurrent use.
type Capture struct {
	surface    Surface
	maxBox     geometry.Size
	state      State
	box        geometry.Size
	origin     geometry.Point
	stroking   bool
	last       geometry.Point
	hasContent bool
	strokes    int
	asset      *domain.Asset
}

// NewCapture creates an idle capture over surface. Open refuses boxes larger
// than maxBox; a zero maxBox means DefaultMaxBox.
func NewCapture(surface Surface, maxBox geometry.Size) *Capture {
	if maxBox.Width <= 0 || maxBox.Height <= 0 {
		maxBox = DefaultMaxBox
	}
	return &Capture{surface: surface, maxBox: maxBox, state: StateIdle}
}

// MaxBox returns the largest surface Open accepts.
func (c *Capture) MaxBox() geometry.Size { return c.maxBox }

// State returns the current state.
func (c *Capture) State() State { return c.state }

// IsOpen reports whether a drawing session is open.
func (c *Capture) IsOpen() bool { return c.state == StateDrawing }

// HasContent reports whether anything has been drawn since open or the last clear.
func (c *Capture) HasContent() bool { return c.hasContent }

// Strokes returns the number of strokes begun since open or the last clear.
func (c *Capture) Strokes() int { return c.strokes }

// Box returns the displayed size of the open surface.
func (c *Capture) Box() geometry.Size { return c.box }

// Open starts a drawing session on a fresh blank surface of the displayed box.
// origin is the surface's top-left in viewport coordinates, used for touch input.
// A Captured session that was never closed is closed first.
func (c *Capture) Open(box geometry.Size, origin geometry.Point) error {
	if box.Width <= 0 || box.Height <= 0 {
		return domainerrors.UserInputf("capture surface must have a positive size, got %gx%g", box.Width, box.Height)
	}
	if box.Width > c.maxBox.Width || box.Height > c.maxBox.Height {
		return domainerrors.UserInputf("capture surface %gx%g exceeds the %gx%g limit",
			box.Width, box.Height, c.maxBox.Width, c.maxBox.Height)
	}
	switch c.state {
	case StateDrawing:
		return domainerrors.Conflict("signature capture is already open")
	case StateCaptured:
		c.Close()
	}

	c.surface.Reset(box)
	c.box = box
	c.origin = origin
	c.resetStrokes()
	c.state = StateDrawing
	return nil
}

// PointerDown begins a stroke.
func (c *Capture) PointerDown(in Input) error {
	if err := c.requireDrawing(); err != nil {
		return err
	}
	p := in.Local(c.origin)
	c.stroking = true
	c.last = p
	c.hasContent = true
	c.strokes++
	return nil
}

// PointerMove paints a segment from the previous sample. Ignored when no stroke is active.
func (c *Capture) PointerMove(in Input) error {
	if err := c.requireDrawing(); err != nil {
		return err
	}
	if !c.stroking {
		return nil
	}
	p := in.Local(c.origin)
	c.surface.Segment(c.last, p)
	c.last = p
	return nil
}

// PointerUp ends the active stroke. The session stays open.
func (c *Capture) PointerUp() error {
	if err := c.requireDrawing(); err != nil {
		return err
	}
	c.stroking = false
	return nil
}

// PointerLeave ends the active stroke when the pointer exits the surface.
func (c *Capture) PointerLeave() error {
	return c.PointerUp()
}

// Clear erases everything drawn. The session stays open.
func (c *Capture) Clear() error {
	if err := c.requireDrawing(); err != nil {
		return err
	}
	c.surface.Reset(c.box)
	c.resetStrokes()
	return nil
}

// Confirm encodes the drawing and moves to Captured. Refused while nothing is drawn.
func (c *Capture) Confirm() (*domain.Asset, error) {
	if err := c.requireDrawing(); err != nil {
		return nil, err
	}
	if !c.hasContent {
		return nil, domainerrors.UserInput("Draw a signature before saving")
	}

	asset, err := c.surface.Encode()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to encode signature")
	}

	c.stroking = false
	c.asset = asset
	c.state = StateCaptured
	return asset, nil
}

// Cancel discards the drawing and returns to Idle. A no-op when idle.
func (c *Capture) Cancel() {
	if c.state == StateIdle {
		return
	}
	c.Close()
}

// Close returns to Idle and drops the surface contents and any encoded asset.
func (c *Capture) Close() {
	c.surface.Reset(c.box)
	c.resetStrokes()
	c.asset = nil
	c.state = StateIdle
}

func (c *Capture) resetStrokes() {
	c.stroking = false
	c.hasContent = false
	c.strokes = 0
	c.last = geometry.Point{}
}

func (c *Capture) requireDrawing() error {
	if c.state != StateDrawing {
		return domainerrors.Invariantf("signature capture is %s, not drawing", c.state)
	}
	return nil
}
