package simulation

import (
	"fmt"
	"robot-sim/internal/common"

	"github.com/google/uuid"
)

// Robot is a circular agent that drives straight along its orientation.
// AutoRobot and ControlRobot embed it and reuse its Move for translation.
type Robot struct {
	id       string
	position common.Vector // top-left corner of the bounding square
	angle    float64
	speed    float64

	lastMove      common.Vector // displacement applied by the latest Move
	grabbed       bool
	angleModified bool // set by SetAngle until the engine reports it
}

// NewRobot creates a new robot at pos facing angle (radians) and moving at speed.
func NewRobot(pos common.Vector, angle, speed float64) *Robot {
	return newRobot(RobotState{Position: pos, Angle: angle, Speed: speed})
}

func newRobot(state RobotState) *Robot {
	r := &Robot{
		id:       fmt.Sprintf("robot-%s", uuid.NewString()[:8]),
		position: state.Position,
		angle:    state.Angle,
	}
	r.SetSpeed(state.Speed)
	return r
}

// GetID returns the unique identifier of the robot.
func (r *Robot) GetID() string {
	return r.id
}

// Base returns the robot itself.
func (r *Robot) Base() *Robot {
	return r
}

func (r *Robot) Kind() Kind {
	return KindRobot
}

// Profile returns the zero profile; a plain robot cannot rotate on its own.
func (r *Robot) Profile() Profile {
	return Profile{}
}

// Move advances the robot along its orientation. distance is not used by
// the straight-line behaviour.
func (r *Robot) Move(delta, distance float64) {
	step := r.OrientationVector().MultiplyByScalar(r.speed * delta)
	r.position = r.position.Add(step)
	r.lastMove = step
}

// LastMove returns the displacement applied by the latest Move.
func (r *Robot) LastMove() common.Vector {
	return r.lastMove
}

// Position returns the top-left corner of the bounding square.
func (r *Robot) Position() common.Vector {
	return r.position
}

// Hitbox returns the bounding square of the robot circle.
func (r *Robot) Hitbox() common.Rect {
	return common.RectAt(r.position, RobotDiameter, RobotDiameter)
}

// SetHitbox moves the robot to the position of hitbox. The size is ignored.
func (r *Robot) SetHitbox(hitbox common.Rect) {
	r.position = hitbox.TopLeft()
}

// Center returns the centre of the robot circle.
func (r *Robot) Center() common.Vector {
	return r.position.Add(common.NewVector(r.Radius(), r.Radius()))
}

func (r *Robot) Radius() float64 {
	return RobotDiameter / 2
}

func (r *Robot) translate(d common.Vector) {
	r.position = r.position.Add(d)
}

// Orientation returns the heading in radians.
func (r *Robot) Orientation() float64 {
	return r.angle
}

// OrientationVector returns the unit vector of the heading.
func (r *Robot) OrientationVector() common.Vector {
	return common.FromAngle(r.angle)
}

// SetAngle sets the heading. The change is recorded for the engine only when
// the angle actually differs.
func (r *Robot) SetAngle(angle float64) {
	if angle == r.angle {
		return
	}
	r.angle = angle
	r.angleModified = true
}

// takeAngleChange reports whether the angle changed since the last call.
func (r *Robot) takeAngleChange() bool {
	changed := r.angleModified
	r.angleModified = false
	return changed
}

// Eye returns the centre and radius of the heading marker drawn on the robot.
func (r *Robot) Eye() (common.Vector, float64) {
	inner := r.Radius() - BorderThickness/2
	eyeRadius := inner / 4
	offset := r.OrientationVector().MultiplyByScalar(inner - eyeRadius*1.5)
	return r.Center().Add(offset), eyeRadius
}

// Speed returns the movement speed in units per second.
func (r *Robot) Speed() float64 {
	return r.speed
}

// SetSpeed sets the movement speed. Negative speeds are clamped to zero.
func (r *Robot) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	r.speed = speed
}

// IsGrabbed reports whether the robot is being dragged.
func (r *Robot) IsGrabbed() bool {
	return r.grabbed
}

func (r *Robot) SetGrabbed(grabbed bool) {
	r.grabbed = grabbed
}

// String representation for logging
func (r *Robot) String() string {
	return fmt.Sprintf("Robot[%s] Pos: %s Angle: %.3f Speed: %.2f", r.id, r.position, r.angle, r.speed)
}
