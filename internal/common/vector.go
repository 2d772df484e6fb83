package common

import (
	"fmt"
	"math"
)

// Vector represents a point or displacement in the 2-D arena.
// The y axis grows downwards, matching screen coordinates.
type Vector struct {
	X float64
	Y float64
}

// NewVector creates a new vector.
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// FromAngle returns the unit vector pointing along angle (radians).
func FromAngle(angle float64) Vector {
	return Vector{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Add adds another vector to this vector.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

// Subtract subtracts another vector from this vector.
func (v Vector) Subtract(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

// MultiplyByScalar multiplies the vector by a scalar value.
func (v Vector) MultiplyByScalar(scalar float64) Vector {
	return Vector{X: v.X * scalar, Y: v.Y * scalar}
}

// Dot returns the dot product of the two vectors.
func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

// NormSq calculates the squared length of the vector.
func (v Vector) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Norm returns the length of the vector.
func (v Vector) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance calculates the Euclidean distance between two points.
func (v Vector) Distance(other Vector) float64 {
	return v.Subtract(other).Norm()
}

// Normalize returns the unit vector with the same direction.
// The zero vector normalizes to itself.
func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return Vector{}
	}
	return Vector{X: v.X / n, Y: v.Y / n}
}

// IsZero reports whether both components are zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// String returns a string representation of the vector.
func (v Vector) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}
