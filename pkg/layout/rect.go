package layout

import "github.com/matzehuels/pacefig/pkg/timing"

// Rect is one component's bar. X is in processor indices, Y in seconds.
// Height is stored as given so it always equals the component's run time.
type Rect struct {
	Component   timing.Component
	Left, Right float64
	Bottom      float64
	Height      float64
}

// newRect places component c's range at bottom with the given height.
func newRect(c timing.Component, r timing.ProcessorRange, bottom, height float64) Rect {
	return Rect{
		Component: c,
		Left:      float64(r.Start),
		Right:     float64(r.End),
		Bottom:    bottom,
		Height:    height,
	}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Top returns the upper edge of the rectangle.
func (r Rect) Top() float64 { return r.Bottom + r.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Bottom + r.Height/2 }
