package simulation

import (
	"math"
	"robot-sim/internal/common"
	"robot-sim/internal/geometry"
)

// ObstacleDistance casts a ray from the centre of the robot along its heading
// and returns the free distance to the nearest obstacle or room wall, measured
// from the edge of the robot. Grabbed obstacles are transparent.
func (s *Simulation) ObstacleDistance(a Agent) float64 {
	base := a.Base()
	origin := base.Center()
	direction := base.OrientationVector()

	nearest := geometry.RayDistanceToRect(origin, direction, s.bounds)
	for _, o := range s.obstacles {
		if o.IsGrabbed() {
			continue
		}
		if d := geometry.RayDistanceToRect(origin, direction, o.Hitbox()); d < nearest {
			nearest = d
		}
	}

	return math.Max(nearest-base.Radius(), 0)
}

func (s *Simulation) moveAgents(delta float64) {
	for _, a := range s.agents {
		if a.IsGrabbed() {
			continue
		}
		a.Move(delta, s.ObstacleDistance(a))
	}
}

// resolveBorderCollisions clamps every robot back into the room, one axis at
// a time.
func (s *Simulation) resolveBorderCollisions() {
	for _, a := range s.agents {
		if a.IsGrabbed() {
			continue
		}
		base := a.Base()
		box := base.Hitbox()

		var fix common.Vector
		switch {
		case box.Left() < s.bounds.Left():
			fix.X = s.bounds.Left() - box.Left()
		case box.Right() > s.bounds.Right():
			fix.X = s.bounds.Right() - box.Right()
		}
		switch {
		case box.Top() < s.bounds.Top():
			fix.Y = s.bounds.Top() - box.Top()
		case box.Bottom() > s.bounds.Bottom():
			fix.Y = s.bounds.Bottom() - box.Bottom()
		}

		if !fix.IsZero() {
			base.translate(fix)
		}
	}
}

func (s *Simulation) resolveObstacleCollisions() {
	for _, o := range s.obstacles {
		if o.IsGrabbed() {
			continue
		}
		rect := o.Hitbox()
		if rect.IsEmpty() {
			continue
		}
		for _, a := range s.agents {
			if a.IsGrabbed() {
				continue
			}
			if fix, ok := circleRectCorrection(a.Base(), rect); ok {
				a.Base().translate(fix)
			}
		}
	}
}

// circleRectCorrection returns the displacement that moves the robot out of
// rect, or false when they do not overlap.
//
// With the centre above or below the rectangle only the vertical position is
// corrected, beside it only the horizontal one. Otherwise the centre faces a
// corner and the robot is pushed radially away from the nearest one.
func circleRectCorrection(r *Robot, rect common.Rect) (common.Vector, bool) {
	center := r.Center()
	radius := r.Radius()

	switch {
	case geometry.InRange(center.X, rect.Left(), rect.Right()):
		up := (center.Y + radius) - rect.Top()      // penetration through the top edge
		down := rect.Bottom() - (center.Y - radius) // penetration through the bottom edge
		if up <= 0 || down <= 0 {
			return common.Vector{}, false
		}
		if pushTowardStart(up, down, r.lastMove.Y) {
			return common.NewVector(0, -up), true
		}
		return common.NewVector(0, down), true

	case geometry.InRange(center.Y, rect.Top(), rect.Bottom()):
		left := (center.X + radius) - rect.Left()
		right := rect.Right() - (center.X - radius)
		if left <= 0 || right <= 0 {
			return common.Vector{}, false
		}
		if pushTowardStart(left, right, r.lastMove.X) {
			return common.NewVector(-left, 0), true
		}
		return common.NewVector(right, 0), true
	}

	// Outside both spans the nearest point of the rectangle is a corner.
	corner := geometry.ClosestPointOnRect(center, rect)
	if !geometry.CircleContains(radius, center, corner) {
		return common.Vector{}, false
	}
	fix := geometry.CornerOverlapVector(center, radius, corner)
	if fix.IsZero() {
		// Centre exactly on the corner: leave along the diagonal pointing away
		// from the rectangle.
		fix = corner.Subtract(rect.Center()).Normalize().MultiplyByScalar(radius)
	}
	return fix, true
}

// pushTowardStart picks the side with the smaller penetration. On a tie the
// robot goes back the way it came: a non-negative last move along the axis
// means it came from the low side.
func pushTowardStart(low, high, lastMove float64) bool {
	if low != high {
		return low < high
	}
	return lastMove >= 0
}

// resolveAgentCollisions pushes overlapping robots apart, each by half the
// penetration along the line joining their centres.
func (s *Simulation) resolveAgentCollisions() {
	for i := 0; i < len(s.agents); i++ {
		if s.agents[i].IsGrabbed() {
			continue
		}
		first := s.agents[i].Base()
		for j := i + 1; j < len(s.agents); j++ {
			if s.agents[j].IsGrabbed() {
				continue
			}
			second := s.agents[j].Base()

			between := second.Center().Subtract(first.Center())
			dist := between.Norm()
			penetration := first.Radius() + second.Radius() - dist
			if penetration <= 0 {
				continue
			}

			// Coincident centres have no joining line; split along x.
			normal := common.NewVector(1, 0)
			if dist > 0 {
				normal = between.MultiplyByScalar(1 / dist)
			}
			half := normal.MultiplyByScalar(penetration / 2)
			first.translate(half.MultiplyByScalar(-1))
			second.translate(half)
		}
	}
}
