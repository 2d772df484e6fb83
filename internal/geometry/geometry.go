package geometry

import (
	"math"
	"robot-sim/internal/common"

	"gonum.org/v1/gonum/mat"
)

// segmentTolerance widens segment extents so that hits on an end point are
// not lost to rounding.
const segmentTolerance = 1e-9

// Infinity is the distance reported when nothing is hit.
var Infinity = math.Inf(1)

// InRange reports whether lo < v < hi.
func InRange(v, lo, hi float64) bool {
	return lo < v && v < hi
}

// CircleContains reports whether point lies strictly inside the circle.
func CircleContains(radius float64, center, point common.Vector) bool {
	return center.Subtract(point).NormSq() < radius*radius
}

// RayIntersectSegment returns the distance from origin to the point where the
// ray origin + t*direction (t >= 0) crosses the segment [a, b].
// Returns Infinity when the ray misses, runs parallel to the segment or any
// of the vectors is degenerate.
func RayIntersectSegment(origin, direction, a, b common.Vector) float64 {
	edge := b.Subtract(a)

	// origin + t*direction = a + s*edge  =>  [direction, -edge] * [t, s]^T = a - origin
	det := direction.X*(-edge.Y) - (-edge.X)*direction.Y
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Infinity
	}
	rhs := a.Subtract(origin)
	if math.IsNaN(rhs.X) || math.IsNaN(rhs.Y) || math.IsInf(rhs.X, 0) || math.IsInf(rhs.Y, 0) {
		return Infinity
	}

	A := mat.NewDense(2, 2, []float64{
		direction.X, -edge.X,
		direction.Y, -edge.Y,
	})
	bv := mat.NewVecDense(2, []float64{rhs.X, rhs.Y})

	var x mat.VecDense
	if err := x.SolveVec(A, bv); err != nil {
		// Singular or too ill-conditioned to trust.
		return Infinity
	}

	t := x.AtVec(0)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return Infinity
	}

	hit := origin.Add(direction.MultiplyByScalar(t))
	if !withinExtent(hit.X, a.X, b.X) || !withinExtent(hit.Y, a.Y, b.Y) {
		return Infinity
	}

	toHit := hit.Subtract(origin)
	if direction.Dot(toHit) < 0 {
		return Infinity
	}
	return toHit.Norm()
}

// RayDistanceToRect returns the distance from origin along direction to the
// nearest edge of rect, or Infinity when the ray misses it.
func RayDistanceToRect(origin, direction common.Vector, rect common.Rect) float64 {
	if rect.IsEmpty() {
		return Infinity
	}

	best := Infinity
	for _, edge := range rect.Edges() {
		if d := RayIntersectSegment(origin, direction, edge[0], edge[1]); d < best {
			best = d
		}
	}
	return best
}

// CornerOverlapVector returns the displacement that moves a circle with the
// given center and radius so that corner lies exactly on its boundary, along
// the axis joining the center and the corner.
func CornerOverlapVector(center common.Vector, radius float64, corner common.Vector) common.Vector {
	toCorner := corner.Subtract(center)
	if toCorner.IsZero() {
		return common.Vector{}
	}
	return toCorner.Subtract(toCorner.Normalize().MultiplyByScalar(radius))
}

// ClosestPointOnRect returns the point of rect nearest to p.
func ClosestPointOnRect(p common.Vector, rect common.Rect) common.Vector {
	return common.Vector{
		X: clamp(p.X, rect.Left(), rect.Right()),
		Y: clamp(p.Y, rect.Top(), rect.Bottom()),
	}
}

// DistanceToRect returns the distance from p to rect, zero when p is inside.
func DistanceToRect(p common.Vector, rect common.Rect) float64 {
	return p.Distance(ClosestPointOnRect(p, rect))
}

func withinExtent(v, a, b float64) bool {
	lo, hi := math.Min(a, b), math.Max(a, b)
	return v >= lo-segmentTolerance && v <= hi+segmentTolerance
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
