package common

import "fmt"

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect creates a rectangle from its top-left corner and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectAt creates a rectangle with the given top-left corner and size.
func RectAt(pos Vector, width, height float64) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: width, Height: height}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// TopLeft returns the position of the rectangle.
func (r Rect) TopLeft() Vector     { return Vector{X: r.Left(), Y: r.Top()} }
func (r Rect) TopRight() Vector    { return Vector{X: r.Right(), Y: r.Top()} }
func (r Rect) BottomRight() Vector { return Vector{X: r.Right(), Y: r.Bottom()} }
func (r Rect) BottomLeft() Vector  { return Vector{X: r.Left(), Y: r.Bottom()} }

// Center returns the middle point of the rectangle.
func (r Rect) Center() Vector {
	return Vector{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Corners returns the corners clockwise from the top-left one.
func (r Rect) Corners() [4]Vector {
	return [4]Vector{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()}
}

// Edges returns the four sides as segments, clockwise from the top one.
func (r Rect) Edges() [4][2]Vector {
	c := r.Corners()
	return [4][2]Vector{
		{c[0], c[1]},
		{c[1], c[2]},
		{c[2], c[3]},
		{c[3], c[0]},
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Contains reports whether the point lies inside or on the border.
func (r Rect) Contains(p Vector) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Vector) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// MoveTo returns the rectangle with its top-left corner at pos.
func (r Rect) MoveTo(pos Vector) Rect {
	r.X = pos.X
	r.Y = pos.Y
	return r
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("%.3fx%.3f %s", r.Width, r.Height, r.TopLeft())
}
