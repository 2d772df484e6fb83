package visualization

import (
	"math"
	"robot-sim/internal/common"
)

// Viewport maps room coordinates onto the part of the screen above the
// status bar, keeping the aspect ratio and centring the room.
type Viewport struct {
	scale   float64
	offsetX float64
	offsetY float64
}

// FitViewport computes the transformation that fits world into a
// width x height area with padding on every side.
func FitViewport(world common.Rect, width, height, padding float64) Viewport {
	if world.IsEmpty() || width <= 0 || height <= 0 {
		return Viewport{scale: 1}
	}

	scaleX := (width - 2*padding) / world.Width
	scaleY := (height - 2*padding) / world.Height
	scale := math.Min(scaleX, scaleY) // Preserve aspect ratio

	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}

	// Center the world
	center := world.Center()
	return Viewport{
		scale:   scale,
		offsetX: width/2 - center.X*scale,
		offsetY: height/2 - center.Y*scale,
	}
}

// ToScreen converts a room point to screen coordinates.
func (v Viewport) ToScreen(p common.Vector) (float32, float32) {
	return float32(p.X*v.scale + v.offsetX), float32(p.Y*v.scale + v.offsetY)
}

// ToWorld converts a cursor position to room coordinates.
func (v Viewport) ToWorld(x, y int) common.Vector {
	return common.NewVector(
		(float64(x)-v.offsetX)/v.scale,
		(float64(y)-v.offsetY)/v.scale,
	)
}

// Length converts a room distance to screen pixels.
func (v Viewport) Length(l float64) float32 {
	return float32(l * v.scale)
}

// RectToScreen converts a room rectangle to x, y, width, height on screen.
func (v Viewport) RectToScreen(r common.Rect) (x, y, w, h float32) {
	x, y = v.ToScreen(r.TopLeft())
	return x, y, v.Length(r.Width), v.Length(r.Height)
}
